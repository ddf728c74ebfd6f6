// Package source defines the ports a usage-data backend must satisfy.
package source

import (
	"context"

	"wattboard/internal/core"
)

// Ports for outbound adapters.
type (
	// TableReader loads the current usage table from the backend.
	TableReader interface {
		Table(ctx context.Context) (core.Table, error)
	}

	// RecordAppender stores one manually entered record and returns a
	// backend-specific row reference.
	RecordAppender interface {
		Append(ctx context.Context, r core.Record) (rowRef string, err error)
	}

	// TableExporter writes a full table snapshot to an external target.
	TableExporter interface {
		Export(ctx context.Context, t core.Table) error
	}
)
