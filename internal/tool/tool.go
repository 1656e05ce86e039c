// Package tool exposes the server's operations as named, schema-described
// tools that transports can enumerate and invoke.
package tool

import (
	"context"
	"time"

	"netlens/internal/discovery"
	"netlens/internal/domain"
	"netlens/internal/inventory"
	"netlens/internal/parser"
	"netlens/internal/probe"
	"netlens/internal/repository"
	"netlens/internal/session"
)

// Tool defines the interface that all tools must implement.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description for callers.
	Description() string

	// Parameters returns the JSON schema for the tool's parameters.
	Parameters() map[string]any

	// Execute runs the tool with the given arguments. The returned value
	// is JSON-serializable.
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// Deps bundles the services the tools operate over.
type Deps struct {
	Inventory *inventory.Registry
	Sessions  *session.Manager
	Parsers   *parser.Registry
	Discovery *discovery.Service
	Prober    *probe.Prober
	Log       repository.CommandLog

	// CommandTimeout bounds direct command execution (show_version).
	CommandTimeout time.Duration
}

// device resolves a device name against the inventory. Unknown names fail
// before any connection is attempted.
func (d *Deps) device(name string) (*domain.Device, error) {
	return d.Inventory.Lookup(name)
}

// deviceParameter is the schema fragment shared by every per-device tool.
func deviceParameter() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"device_name": map[string]any{
				"type":        "string",
				"description": "Device name as listed in the testbed inventory",
			},
		},
		"required": []string{"device_name"},
	}
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
