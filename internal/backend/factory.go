package backend

import (
	"context"
	"fmt"
	"log/slog"

	"wattboard/internal/session"
	"wattboard/internal/source/sheets"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SessionBackend:
		return f.createSessionBackend()
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSessionBackend() (*Result, error) {
	store := session.New()

	f.logger.Info("Initialized session backend")

	return &Result{
		Backend: store,
		Session: store,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := sheets.New(ctx, sheets.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		UsageSheet:      config.GoogleSheetName,
		ExportSheet:     config.GoogleExportSheetName,
		OAuthClientJSON: config.GoogleOAuthClientJSON,
		OAuthClientFile: config.GoogleOAuthClientFile,
		OAuthTokenJSON:  config.GoogleOAuthTokenJSON,
		OAuthTokenFile:  config.GoogleOAuthTokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet", config.GoogleSheetName)

	return &Result{
		Backend:  cli,
		Exporter: cli,
	}, nil
}
