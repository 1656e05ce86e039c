// Package repository defines the data access interface for the command
// journal. The sqlite subpackage provides the implementation.
package repository

import (
	"context"

	"netlens/internal/domain"
)

// CommandLog persists every command execution for later inspection. It is a
// journal of what the server did on the network, not a topology store.
type CommandLog interface {
	// Record appends one command execution to the journal.
	Record(ctx context.Context, result *domain.RawCommandResult) error

	// Recent returns the newest entries, newest first. An empty device
	// matches all devices. limit caps the result; zero means a default.
	Recent(ctx context.Context, device string, limit int) ([]domain.RawCommandResult, error)

	// Close releases resources.
	Close() error
}
