// Package discovery gathers per-protocol neighbor observations from devices
// and reconciles them into a single deduplicated adjacency view.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"netlens/internal/domain"
	"netlens/internal/parser"
)

// CommandRunner executes one command on one device. Implemented by the
// session manager.
type CommandRunner interface {
	Run(ctx context.Context, device *domain.Device, command string, timeout time.Duration) (*domain.RawCommandResult, error)
}

// Collector runs the per-protocol discovery commands and parses their output.
type Collector struct {
	runner         CommandRunner
	parsers        *parser.Registry
	commandTimeout time.Duration
}

// NewCollector creates a collector over the given runner and grammar registry.
func NewCollector(runner CommandRunner, parsers *parser.Registry, commandTimeout time.Duration) *Collector {
	return &Collector{
		runner:         runner,
		parsers:        parsers,
		commandTimeout: commandTimeout,
	}
}

// commandFor maps a protocol to its neighbor-listing command.
func commandFor(p domain.Protocol) string {
	if p == domain.ProtocolCDP {
		return parser.CommandCDPNeighbors
	}
	return parser.CommandLLDPNeighbors
}

// Collect gathers one protocol's neighbor records from a device.
// Platform and management addresses are best-effort; their absence is not an
// error. Local device is stamped onto every record.
func (c *Collector) Collect(ctx context.Context, device *domain.Device, protocol domain.Protocol) ([]domain.NeighborRecord, error) {
	command := commandFor(protocol)

	result, err := c.runner.Run(ctx, device, command, c.commandTimeout)
	if err != nil {
		return nil, err
	}

	fact, err := c.parsers.Parse(device.OS, command, result.Output)
	if err != nil {
		return nil, domain.NewOpError(domain.FailureParse, device.Name, "collect "+string(protocol), err)
	}

	records, ok := fact.([]domain.NeighborRecord)
	if !ok {
		return nil, domain.NewOpError(domain.FailureParse, device.Name, "collect "+string(protocol),
			fmt.Errorf("grammar returned %T, want neighbor records", fact))
	}

	for i := range records {
		records[i].LocalDevice = device.Name
	}
	return records, nil
}

// ProtocolResult carries one protocol's outcome for a device.
type ProtocolResult struct {
	Protocol domain.Protocol
	Records  []domain.NeighborRecord
	Err      error
}

// CollectBoth gathers CDP and LLDP concurrently. Each protocol uses its own
// session, so the two commands never interleave on one connection. A failure
// in one protocol does not abort the other.
func (c *Collector) CollectBoth(ctx context.Context, device *domain.Device) (cdp, lldp ProtocolResult) {
	cdp.Protocol = domain.ProtocolCDP
	lldp.Protocol = domain.ProtocolLLDP

	var wg sync.WaitGroup
	for _, res := range []*ProtocolResult{&cdp, &lldp} {
		wg.Add(1)
		go func(res *ProtocolResult) {
			defer wg.Done()
			res.Records, res.Err = c.Collect(ctx, device, res.Protocol)
		}(res)
	}
	wg.Wait()
	return cdp, lldp
}
