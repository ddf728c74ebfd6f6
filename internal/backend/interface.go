package backend

import (
	"context"

	"wattboard/internal/session"
	"wattboard/internal/source"
)

// Backend is the data source the dashboard serves from.
type Backend interface {
	source.TableReader
	source.RecordAppender
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result holds the constructed backend.
//
// Exporter is nil when the backend cannot receive exports, and Session is
// non-nil only for the in-memory backend, which the HTTP layer resets and
// revision-tracks directly.
type Result struct {
	Backend  Backend
	Exporter source.TableExporter
	Session  *session.Store
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds what backend construction needs, detached from the app config.
type Config struct {
	Type Type

	// Google Sheets specific
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleExportSheetName string
	GoogleOAuthClientFile string
	GoogleOAuthTokenFile  string
	GoogleOAuthClientJSON string
	GoogleOAuthTokenJSON  string
}

// Type represents the kind of backend.
type Type string

const (
	SessionBackend Type = "session"
	SheetsBackend  Type = "sheets"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SessionBackend, SheetsBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SessionBackend, SheetsBackend}
}
