// Package config provides configuration management for saavnbot.
//
// Settings load from an optional YAML file with environment variables
// taking precedence:
//
//	settings, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := settings.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Variables
//
//   - BOT_TOKEN      - Telegram bot credential (required)
//   - SAAVN_API_URL  - catalog API base URL
//   - PORT           - liveness probe port
//   - DOWNLOAD_DIR   - directory for per-run temporary files
//   - LOG_LEVEL      - debug, info, warn, error
//   - LOG_FILE       - optional rotating log file path
package config
