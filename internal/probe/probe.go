// Package probe checks device reachability with an nmap port scan before any
// session work is attempted.
package probe

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
	"netlens/internal/domain"
)

// Result is the outcome of a reachability probe against one device.
type Result struct {
	Device    string        `json:"device"`
	Host      string        `json:"host"`
	Port      int           `json:"port"`
	Reachable bool          `json:"reachable"`
	State     string        `json:"state,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// Prober scans a device's management port.
type Prober struct {
	timeout time.Duration
}

// NewProber creates a prober. timeout bounds each scan; zero means 30s.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Prober{timeout: timeout}
}

// Probe scans the device's configured management port. The scan skips host
// discovery so filtered ICMP does not mask a reachable SSH port.
func (p *Prober) Probe(ctx context.Context, device *domain.Device) (*Result, error) {
	port := device.Port
	if port == 0 {
		port = domain.DefaultSSHPort
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	scanner, err := nmap.NewScanner(
		ctx,
		nmap.WithTargets(device.Host),
		nmap.WithPorts(strconv.Itoa(port)),
		nmap.WithSkipHostDiscovery(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner for %s: %w", device.Name, err)
	}

	start := time.Now()
	run, warnings, err := scanner.Run()
	elapsed := time.Since(start)
	if err != nil {
		return nil, domain.NewOpError(domain.FailureTransportError, device.Name, "probe", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("Probe: warnings for %s: %v", device.Name, *warnings)
	}

	result := &Result{
		Device:   device.Name,
		Host:     device.Host,
		Port:     port,
		Duration: elapsed,
	}
	result.State, result.Reachable = portState(run, port)

	log.Printf("Probe: %s (%s:%d) state=%s reachable=%v in %v",
		device.Name, device.Host, port, result.State, result.Reachable, elapsed)
	return result, nil
}

// portState extracts the scanned state of one port from an nmap run.
// Ports nmap never reported come back as "unknown".
func portState(run *nmap.Run, port int) (state string, reachable bool) {
	state = "unknown"
	if run == nil {
		return state, false
	}
	for _, host := range run.Hosts {
		for _, scanned := range host.Ports {
			if int(scanned.ID) != port {
				continue
			}
			state = scanned.State.State
			reachable = state == "open"
		}
	}
	return state, reachable
}
