// Package config provides configuration management for social-transcriber.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overlaying values from .env files and the environment
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Transcripts go to ./output, 4 workers, audio sped up 3x
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/settings.json")
//	if err != nil {
//	    // Only parse and permission errors; a missing file yields defaults
//	}
//
// # Environment
//
// ApplyEnv reads .env (through godotenv) and then OPENROUTER_API_KEY,
// LLM_API_URL, LLM_MODEL, TRANSCRIBER_OUTPUT_DIR, TRANSCRIBER_MAX_WORKERS
// and TRANSCRIBER_SPEED:
//
//	settings.ApplyEnv()
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
