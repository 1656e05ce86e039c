package tool

import (
	"context"

	"netlens/internal/domain"
)

// ListDevicesTool enumerates the testbed inventory.
type ListDevicesTool struct {
	deps *Deps
}

func (t *ListDevicesTool) Name() string {
	return "list_devices"
}

func (t *ListDevicesTool) Description() string {
	return "List the devices in the testbed inventory with their OS, type, and role"
}

func (t *ListDevicesTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

// deviceSummary is the inventory view a caller sees. Credentials never
// leave the server.
type deviceSummary struct {
	Name string `json:"name"`
	OS   string `json:"os"`
	Type string `json:"type,omitempty"`
	Role string `json:"role,omitempty"`
	Host string `json:"host"`
}

func (t *ListDevicesTool) Execute(_ context.Context, _ map[string]any) (any, error) {
	devices := t.deps.Inventory.List()
	summaries := make([]deviceSummary, 0, len(devices))
	for _, d := range devices {
		summaries = append(summaries, deviceSummary{
			Name: d.Name,
			OS:   string(d.OS),
			Type: d.Type,
			Role: d.Role,
			Host: d.Host,
		})
	}
	return map[string]any{
		"count":   len(summaries),
		"devices": summaries,
	}, nil
}

// ProbeDeviceTool checks whether a device's management port answers.
type ProbeDeviceTool struct {
	deps *Deps
}

func (t *ProbeDeviceTool) Name() string {
	return "probe_device"
}

func (t *ProbeDeviceTool) Description() string {
	return "Scan a device's management port to check reachability before connecting"
}

func (t *ProbeDeviceTool) Parameters() map[string]any {
	return deviceParameter()
}

func (t *ProbeDeviceTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	name, ok := stringArg(args, "device_name")
	if !ok {
		return nil, errMissingDeviceName
	}
	device, err := t.deps.device(name)
	if err != nil {
		return nil, err
	}
	return t.deps.Prober.Probe(ctx, device)
}

// RecentCommandsTool reads the command journal.
type RecentCommandsTool struct {
	deps *Deps
}

func (t *RecentCommandsTool) Name() string {
	return "recent_commands"
}

func (t *RecentCommandsTool) Description() string {
	return "Show recent commands the server executed, newest first, optionally filtered by device"
}

func (t *RecentCommandsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"device_name": map[string]any{
				"type":        "string",
				"description": "Restrict to one device; omit for all devices",
			},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Maximum entries to return",
			},
		},
		"required": []string{},
	}
}

func (t *RecentCommandsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	device, _ := stringArg(args, "device_name")
	if device != "" {
		// Fail on unknown names instead of returning an empty journal.
		if _, err := t.deps.device(device); err != nil {
			return nil, err
		}
	}

	limit := 0
	if v, ok := args["limit"]; ok {
		// JSON numbers decode as float64.
		if f, ok := v.(float64); ok {
			limit = int(f)
		}
	}

	entries, err := t.deps.Log.Recent(ctx, device, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.RawCommandResult{}
	}
	return map[string]any{
		"count":    len(entries),
		"commands": entries,
	}, nil
}
