package parser

import (
	"fmt"
	"strings"

	"netlens/internal/domain"
)

// ParseLLDPNeighbors parses "show lldp neighbors detail" output into neighbor
// records. LLDP identifies the remote end by system name when advertised,
// falling back to the chassis ID (often a MAC address).
func ParseLLDPNeighbors(raw string) (any, error) {
	records := []domain.NeighborRecord{}
	if strings.TrimSpace(raw) == "" {
		return records, nil
	}

	var current *lldpEntry
	captureDescription := false

	flush := func() {
		if current == nil {
			return
		}
		if rec, ok := current.record(); ok {
			records = append(records, rec)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "%") {
			return nil, fmt.Errorf("device reported: %s", trimmed)
		}

		if captureDescription {
			// A new entry header ends an empty description block.
			if hasField(trimmed, "Local Intf:") {
				captureDescription = false
			} else {
				if trimmed != "" {
					current.systemDescription = trimmed
					captureDescription = false
				}
				continue
			}
		}

		if v, ok := fieldValue(trimmed, "Local Intf:"); ok {
			flush()
			current = &lldpEntry{localInterface: v}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case hasField(trimmed, "Chassis id:"):
			current.chassisID, _ = fieldValue(trimmed, "Chassis id:")
		case hasField(trimmed, "Port id:"):
			current.portID, _ = fieldValue(trimmed, "Port id:")
		case hasField(trimmed, "Port Description:"):
			current.portDescription, _ = fieldValue(trimmed, "Port Description:")
		case hasField(trimmed, "System Name:"):
			current.systemName, _ = fieldValue(trimmed, "System Name:")
		case hasField(trimmed, "System Description:"):
			// Description text follows on the next non-empty line.
			captureDescription = true
		case hasField(trimmed, "IP:"):
			v, _ := fieldValue(trimmed, "IP:")
			current.managementAddresses = appendUnique(current.managementAddresses, v)
		}
	}
	flush()

	return records, nil
}

// lldpEntry accumulates one neighbor block before conversion.
type lldpEntry struct {
	localInterface      string
	chassisID           string
	portID              string
	portDescription     string
	systemName          string
	systemDescription   string
	managementAddresses []string
}

// record converts the entry, applying the LLDP fallback chain: system name
// over chassis ID for the remote device, port ID over port description for
// the remote interface.
func (e *lldpEntry) record() (domain.NeighborRecord, bool) {
	remote := e.systemName
	if remote == "" {
		remote = e.chassisID
	}
	remoteIntf := e.portID
	if remoteIntf == "" {
		remoteIntf = e.portDescription
	}

	if e.localInterface == "" || remote == "" {
		return domain.NeighborRecord{}, false
	}

	// The first line of the system description carries the platform string.
	platform := e.systemDescription
	if idx := strings.Index(platform, "\n"); idx >= 0 {
		platform = platform[:idx]
	}

	return domain.NeighborRecord{
		Protocol:            domain.ProtocolLLDP,
		LocalInterface:      e.localInterface,
		RemoteDevice:        remote,
		RemoteInterface:     remoteIntf,
		Platform:            strings.TrimSpace(platform),
		ManagementAddresses: e.managementAddresses,
	}, true
}

func hasField(line, prefix string) bool {
	_, ok := fieldValue(line, prefix)
	return ok
}
