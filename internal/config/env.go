package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables recognised by ApplyEnv.
const (
	EnvAPIKey     = "OPENROUTER_API_KEY"
	EnvAPIURL     = "LLM_API_URL"
	EnvModel      = "LLM_MODEL"
	EnvOutputDir  = "TRANSCRIBER_OUTPUT_DIR"
	EnvMaxWorkers = "TRANSCRIBER_MAX_WORKERS"
	EnvSpeed      = "TRANSCRIBER_SPEED"
)

// ApplyEnv loads the given dotenv files (".env" when none are named) and
// overlays recognised environment variables onto s. Missing dotenv files
// are not an error.
func (s *Settings) ApplyEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("file", f).Warn("Could not load env file")
		}
	}

	s.LLMAPIKey = getEnv(EnvAPIKey, s.LLMAPIKey)
	s.LLMAPIURL = getEnv(EnvAPIURL, s.LLMAPIURL)
	s.LLMModel = getEnv(EnvModel, s.LLMModel)
	s.OutputDir = getEnv(EnvOutputDir, s.OutputDir)
	s.MaxWorkers = getEnvAsInt(EnvMaxWorkers, s.MaxWorkers)
	s.SpeedMultiplier = getEnvAsFloat(EnvSpeed, s.SpeedMultiplier)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid number, using default")
	}
	return defaultValue
}
