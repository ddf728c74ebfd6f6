package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by DATA_BACKEND.
const (
	BackendSession = "session"
	BackendSheets  = "sheets"
)

// DefaultConfigPath is consulted when WATTBOARD_CONFIG is unset.
const DefaultConfigPath = "./wattboard.yaml"

type Config struct {
	// HTTP server
	Port string

	// Backend selection
	DataBackend string

	// Google Sheets (optional backend and export target)
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleExportSheetName string
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string

	// Dashboard presentation and sample data, settable from the YAML file
	CurrencySymbol string
	UnitLabels     []string
	RateMin        float64
	RateMax        float64
}

// FileConfig is the optional YAML configuration file shape. Only
// presentation and sample-data settings live in the file; connection
// settings stay in the environment.
type FileConfig struct {
	Units    []string `yaml:"units,omitempty"`
	RateMin  float64  `yaml:"rate_min,omitempty"`
	RateMax  float64  `yaml:"rate_max,omitempty"`
	Currency string   `yaml:"currency,omitempty"`
}

// Load builds the configuration: defaults, then the YAML file (if present),
// then environment overrides.
func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		DataBackend: getEnv("DATA_BACKEND", BackendSession),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Usage"),
		GoogleExportSheetName: getEnv("GOOGLE_EXPORT_SHEET_NAME", "Export"),
		GoogleOAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", ""),
		GoogleOAuthTokenFile:  getEnv("GOOGLE_OAUTH_TOKEN_FILE", ""),
		GoogleOAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
		GoogleOAuthTokenJSON:  getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),

		CurrencySymbol: "$",
		RateMin:        0.10,
		RateMax:        0.15,
	}

	path := getEnv("WATTBOARD_CONFIG", DefaultConfigPath)
	if fc, err := loadFile(path); err == nil && fc != nil {
		cfg.applyFile(fc)
	}

	return cfg
}

// loadFile reads the YAML configuration file. A missing file is not an
// error; the file is optional.
func loadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &fc, nil
}

func (c *Config) applyFile(fc *FileConfig) {
	if len(fc.Units) > 0 {
		c.UnitLabels = fc.Units
	}
	if fc.RateMin > 0 {
		c.RateMin = fc.RateMin
	}
	if fc.RateMax > 0 {
		c.RateMax = fc.RateMax
	}
	if fc.Currency != "" {
		c.CurrencySymbol = fc.Currency
	}
}

// Validate validates the configuration and returns an error if invalid.
// All problems are collected and reported together.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendSession, BackendSheets:
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendSession, BackendSheets))
	}

	if c.DataBackend == BackendSheets {
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errs = append(errs, "Google Sheet name is required when using sheets backend")
		}
		if c.GoogleOAuthClientFile == "" && c.GoogleOAuthClientJSON == "" {
			errs = append(errs, "either GOOGLE_OAUTH_CLIENT_FILE or GOOGLE_OAUTH_CLIENT_JSON must be provided for sheets backend")
		}
		if c.GoogleOAuthTokenFile == "" && c.GoogleOAuthTokenJSON == "" {
			errs = append(errs, "either GOOGLE_OAUTH_TOKEN_FILE or GOOGLE_OAUTH_TOKEN_JSON must be provided for sheets backend")
		}
		if c.GoogleOAuthClientFile != "" {
			if _, err := os.Stat(c.GoogleOAuthClientFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google OAuth client file does not exist: %s", c.GoogleOAuthClientFile))
			}
		}
		if c.GoogleOAuthTokenFile != "" {
			if _, err := os.Stat(c.GoogleOAuthTokenFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google OAuth token file does not exist: %s", c.GoogleOAuthTokenFile))
			}
		}
	}

	if c.RateMin < 0 {
		errs = append(errs, fmt.Sprintf("invalid rate_min %v: must be non-negative", c.RateMin))
	}
	if c.RateMax <= c.RateMin {
		errs = append(errs, fmt.Sprintf("invalid rate band [%v, %v]: rate_max must exceed rate_min", c.RateMin, c.RateMax))
	}
	for _, u := range c.UnitLabels {
		if strings.TrimSpace(u) == "" {
			errs = append(errs, "unit labels must not be blank")
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
