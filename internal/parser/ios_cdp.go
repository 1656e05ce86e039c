package parser

import (
	"fmt"
	"strings"

	"netlens/internal/domain"
)

// ParseCDPNeighbors parses "show cdp neighbors detail" output into neighbor
// records. Empty output means no neighbors, not a failure; a "% CDP is not
// enabled" banner is a failure.
func ParseCDPNeighbors(raw string) (any, error) {
	records := []domain.NeighborRecord{}
	if strings.TrimSpace(raw) == "" {
		return records, nil
	}

	var current *domain.NeighborRecord
	flush := func() {
		if current != nil && current.RemoteDevice != "" && current.LocalInterface != "" {
			records = append(records, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "%") {
			return nil, fmt.Errorf("device reported: %s", trimmed)
		}
		if strings.HasPrefix(trimmed, "-----") {
			flush()
			continue
		}

		if v, ok := fieldValue(trimmed, "Device ID:"); ok {
			flush()
			current = &domain.NeighborRecord{Protocol: domain.ProtocolCDP, RemoteDevice: v}
			continue
		}
		if current == nil {
			continue
		}

		if v, ok := fieldValue(trimmed, "IP address:"); ok {
			current.ManagementAddresses = appendUnique(current.ManagementAddresses, v)
			continue
		}
		if v, ok := fieldValue(trimmed, "IPv4 Address:"); ok {
			current.ManagementAddresses = appendUnique(current.ManagementAddresses, v)
			continue
		}
		if v, ok := fieldValue(trimmed, "Platform:"); ok {
			// "Platform: cisco ISR4451-X/K9,  Capabilities: Router"
			if idx := strings.Index(v, ","); idx >= 0 {
				v = v[:idx]
			}
			current.Platform = strings.TrimSpace(v)
			continue
		}
		if v, ok := fieldValue(trimmed, "Interface:"); ok {
			// "Interface: GigabitEthernet0/1,  Port ID (outgoing port): GigabitEthernet0/2"
			local := v
			if idx := strings.Index(v, ","); idx >= 0 {
				local = v[:idx]
				if port, ok := fieldValue(strings.TrimSpace(v[idx+1:]), "Port ID (outgoing port):"); ok {
					current.RemoteInterface = port
				}
			}
			current.LocalInterface = strings.TrimSpace(local)
			continue
		}
	}
	flush()

	return records, nil
}

// fieldValue returns the trimmed remainder of line after prefix, matching the
// prefix case-insensitively.
func fieldValue(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}
