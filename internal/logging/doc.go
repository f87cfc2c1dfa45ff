// Package logging wires logrus to the console and to a lumberjack
// rotating file.
//
//	closer, err := logging.Setup(logging.Options{Dir: settings.LogDir, Verbose: verbose})
//	if err != nil {
//	    logrus.WithError(err).Warn("File logging disabled")
//	}
//	defer closer.Close()
package logging
