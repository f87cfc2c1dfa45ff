// Package command runs the external tools the transcriber depends on
// (yt-dlp, ffmpeg, parakeet-mlx) behind a small Runner interface.
//
// Providers and the transcriber accept a Runner so tests can replace
// process execution with canned results:
//
//	res, err := runner.Run(ctx, "yt-dlp", "--dump-json", url)
//	if err != nil {
//	    log.Println(res.Stderr)
//	}
package command
