package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"saavnbot/internal/logger"
)

// DefaultAPIBaseURL is the catalog API used when none is configured.
const DefaultAPIBaseURL = "https://jiosaavn-api2.skmassking.workers.dev/api"

// Settings holds all configuration options.
//
// Values come from an optional YAML file, with environment variables taking
// precedence over file values. The bot token is the only required setting.
type Settings struct {
	// BotToken is the Telegram bot credential. Env: BOT_TOKEN.
	BotToken string `yaml:"bot_token"`

	// APIBaseURL is the catalog API base URL. Env: SAAVN_API_URL.
	APIBaseURL string `yaml:"api_base_url"`

	// Port serves the liveness probe. Env: PORT.
	Port int `yaml:"port"`

	// DownloadDir holds per-run temporary files. Env: DOWNLOAD_DIR.
	DownloadDir string `yaml:"download_dir"`

	// SearchLimit caps results per search page.
	SearchLimit int `yaml:"search_limit"`

	// Log configures the process logger. Env: LOG_LEVEL, LOG_FILE.
	Log logger.Config `yaml:"log"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIBaseURL:  DefaultAPIBaseURL,
		Port:        8080,
		DownloadDir: os.TempDir(),
		SearchLimit: 10,
	}
}

// Load reads settings from a YAML file and applies environment overrides.
//
// A missing file is not an error; defaults are used. Environment variables
// always win over file values so container deployments can override without
// shipping a config file.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	settings.applyEnv()
	return settings, nil
}

// Validate reports settings the process cannot start without.
func (s *Settings) Validate() error {
	if s.BotToken == "" {
		return fmt.Errorf("bot token is not set (BOT_TOKEN)")
	}
	if s.APIBaseURL == "" {
		return fmt.Errorf("catalog API base URL is not set (SAAVN_API_URL)")
	}
	return nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		s.BotToken = v
	}
	if v := os.Getenv("SAAVN_API_URL"); v != "" {
		s.APIBaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Port = port
		}
	}
	if v := os.Getenv("DOWNLOAD_DIR"); v != "" {
		s.DownloadDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		s.Log.File = v
	}
}
