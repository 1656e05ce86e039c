package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"

	"netlens/internal/domain"
	"netlens/internal/parser"

	"github.com/sourcegraph/conc/pool"
)

// Service composes the collector and reconciler into the discovery
// operations the tool facade exposes.
type Service struct {
	collector     *Collector
	reconciler    *Reconciler
	maxConcurrent int
}

// NewService creates a discovery service. maxConcurrent bounds fleet-wide
// fan-out; zero means a default of 5 devices at a time.
func NewService(collector *Collector, reconciler *Reconciler, maxConcurrent int) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Service{
		collector:     collector,
		reconciler:    reconciler,
		maxConcurrent: maxConcurrent,
	}
}

// Neighbors gathers one protocol's neighbor records from a device.
func (s *Service) Neighbors(ctx context.Context, device *domain.Device, protocol domain.Protocol) ([]domain.NeighborRecord, error) {
	return s.collector.Collect(ctx, device, protocol)
}

// ProtocolFailure records a per-protocol failure that did not abort the
// combined discovery. Raw carries the original output for parse failures.
type ProtocolFailure struct {
	Protocol domain.Protocol `json:"protocol"`
	Error    string          `json:"error"`
	Raw      string          `json:"raw,omitempty"`
}

// CombinedResult is the outcome of discover-combined for one device.
type CombinedResult struct {
	Device   string                 `json:"device"`
	Edges    []domain.AdjacencyEdge `json:"edges"`
	Failures []ProtocolFailure      `json:"failures,omitempty"`
}

// Combined gathers CDP and LLDP and reconciles them. One protocol failing
// still yields a best-effort adjacency list with the failure attached; the
// operation fails only when both protocols fail.
func (s *Service) Combined(ctx context.Context, device *domain.Device) (*CombinedResult, error) {
	cdp, lldp := s.collector.CollectBoth(ctx, device)

	if cdp.Err != nil && lldp.Err != nil {
		return nil, fmt.Errorf("discovery failed on %s: %w", device.Name, errors.Join(cdp.Err, lldp.Err))
	}

	result := &CombinedResult{Device: device.Name}
	for _, res := range []ProtocolResult{cdp, lldp} {
		if res.Err == nil {
			continue
		}
		log.Printf("Discovery: %s failed on %s: %v", res.Protocol, device.Name, res.Err)
		failure := ProtocolFailure{Protocol: res.Protocol, Error: res.Err.Error()}
		var parseErr *parser.ParseError
		if errors.As(res.Err, &parseErr) {
			failure.Raw = parseErr.Raw
		}
		result.Failures = append(result.Failures, failure)
	}

	result.Edges = s.reconciler.Reconcile(cdp.Records, lldp.Records)
	return result, nil
}

// FleetEntry is one device's outcome in a fleet-wide discovery.
type FleetEntry struct {
	Device string          `json:"device"`
	Result *CombinedResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// DiscoverFleet runs combined discovery across devices with bounded
// concurrency. Entries come back in input order regardless of completion
// order; a device failing does not abort the rest.
func (s *Service) DiscoverFleet(ctx context.Context, devices []domain.Device) []FleetEntry {
	entries := make([]FleetEntry, len(devices))

	p := pool.New().WithMaxGoroutines(s.maxConcurrent)
	for i := range devices {
		i := i
		device := devices[i]
		p.Go(func() {
			entry := FleetEntry{Device: device.Name}
			result, err := s.Combined(ctx, &device)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Result = result
			}
			entries[i] = entry
		})
	}
	p.Wait()

	return entries
}
