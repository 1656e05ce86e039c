package tool

import (
	"context"
	"fmt"

	"netlens/internal/domain"
)

// DiscoverNeighborsTool gathers one protocol's neighbor table from a device.
type DiscoverNeighborsTool struct {
	deps     *Deps
	protocol domain.Protocol
}

func (t *DiscoverNeighborsTool) Name() string {
	return fmt.Sprintf("discover_neighbors_%s", t.protocol)
}

func (t *DiscoverNeighborsTool) Description() string {
	return fmt.Sprintf("Discover a device's neighbors using %s only", t.protocol)
}

func (t *DiscoverNeighborsTool) Parameters() map[string]any {
	return deviceParameter()
}

func (t *DiscoverNeighborsTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	name, ok := stringArg(args, "device_name")
	if !ok {
		return nil, errMissingDeviceName
	}
	device, err := t.deps.device(name)
	if err != nil {
		return nil, err
	}

	records, err := t.deps.Discovery.Neighbors(ctx, device, t.protocol)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.NeighborRecord{}
	}
	return map[string]any{
		"device":    device.Name,
		"protocol":  t.protocol,
		"count":     len(records),
		"neighbors": records,
	}, nil
}

// DiscoverCombinedTool gathers CDP and LLDP and reconciles them into one
// adjacency list.
type DiscoverCombinedTool struct {
	deps *Deps
}

func (t *DiscoverCombinedTool) Name() string {
	return "discover_neighbors_combined"
}

func (t *DiscoverCombinedTool) Description() string {
	return "Discover a device's neighbors using CDP and LLDP together, merged per local interface"
}

func (t *DiscoverCombinedTool) Parameters() map[string]any {
	return deviceParameter()
}

func (t *DiscoverCombinedTool) Execute(ctx context.Context, args map[string]any) (any, error) {
	name, ok := stringArg(args, "device_name")
	if !ok {
		return nil, errMissingDeviceName
	}
	device, err := t.deps.device(name)
	if err != nil {
		return nil, err
	}
	return t.deps.Discovery.Combined(ctx, device)
}

// DiscoverFleetTool runs combined discovery across the whole inventory.
type DiscoverFleetTool struct {
	deps *Deps
}

func (t *DiscoverFleetTool) Name() string {
	return "discover_fleet"
}

func (t *DiscoverFleetTool) Description() string {
	return "Run combined neighbor discovery across every inventory device with bounded concurrency"
}

func (t *DiscoverFleetTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

func (t *DiscoverFleetTool) Execute(ctx context.Context, _ map[string]any) (any, error) {
	devices := t.deps.Inventory.List()
	entries := t.deps.Discovery.DiscoverFleet(ctx, devices)
	return map[string]any{
		"count":   len(entries),
		"devices": entries,
	}, nil
}
