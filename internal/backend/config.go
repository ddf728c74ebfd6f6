package backend

import (
	"fmt"

	"wattboard/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleSheetName:       appConfig.GoogleSheetName,
		GoogleExportSheetName: appConfig.GoogleExportSheetName,
		GoogleOAuthClientFile: appConfig.GoogleOAuthClientFile,
		GoogleOAuthTokenFile:  appConfig.GoogleOAuthTokenFile,
		GoogleOAuthClientJSON: appConfig.GoogleOAuthClientJSON,
		GoogleOAuthTokenJSON:  appConfig.GoogleOAuthTokenJSON,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	if c.Type == SheetsBackend {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.GoogleSheetName == "" {
			return fmt.Errorf("Google Sheet name is required for sheets backend")
		}

		if c.GoogleOAuthClientFile == "" && c.GoogleOAuthClientJSON == "" {
			return fmt.Errorf("either an OAuth client file or inline client JSON is required for sheets backend")
		}
		if c.GoogleOAuthTokenFile == "" && c.GoogleOAuthTokenJSON == "" {
			return fmt.Errorf("either an OAuth token file or inline token JSON is required for sheets backend")
		}
	}

	return nil
}
