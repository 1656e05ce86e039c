package domain

import "sort"

// AdjacencyEdge is the canonical representation of one physical link after
// CDP and LLDP observations for a local interface have been merged.
//
// Invariant: for a fixed (LocalDevice, LocalInterface) pair there is exactly
// one edge in a reconciled result. When the two protocols disagree on the
// remote identity or platform, the preferred protocol's value is kept and the
// other is retained in the alias field rather than discarded.
type AdjacencyEdge struct {
	LocalDevice    string `json:"local_device"`
	LocalInterface string `json:"local_interface"` // normalized short form
	RemoteDevice   string `json:"remote_device"`
	// RemoteDeviceAlias holds the non-preferred protocol's identifier when it
	// disagrees with RemoteDevice.
	RemoteDeviceAlias   string     `json:"remote_device_alias,omitempty"`
	RemoteInterface     string     `json:"remote_interface"`
	Platform            string     `json:"platform,omitempty"`
	PlatformAlias       string     `json:"platform_alias,omitempty"`
	ManagementAddresses []string   `json:"management_addresses,omitempty"`
	Protocols           []Protocol `json:"protocols"`
	// Ambiguous is set when one protocol reported more than one distinct
	// remote on the same local interface (e.g. through a hub).
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// HasProtocol reports whether the edge was observed by the given protocol.
func (e *AdjacencyEdge) HasProtocol(p Protocol) bool {
	for _, have := range e.Protocols {
		if have == p {
			return true
		}
	}
	return false
}

// AddProtocol records a contributing protocol, keeping the set deduplicated
// and sorted for deterministic output.
func (e *AdjacencyEdge) AddProtocol(p Protocol) {
	if e.HasProtocol(p) {
		return
	}
	e.Protocols = append(e.Protocols, p)
	sort.Slice(e.Protocols, func(i, j int) bool { return e.Protocols[i] < e.Protocols[j] })
}

// AddManagementAddress appends addr unless it is already present, preserving
// first-seen order.
func (e *AdjacencyEdge) AddManagementAddress(addr string) {
	if addr == "" {
		return
	}
	for _, have := range e.ManagementAddresses {
		if have == addr {
			return
		}
	}
	e.ManagementAddresses = append(e.ManagementAddresses, addr)
}
