package domain

// Protocol tags the discovery protocol that produced a neighbor observation.
type Protocol string

const (
	ProtocolCDP  Protocol = "cdp"
	ProtocolLLDP Protocol = "lldp"
)

// NeighborRecord is one per-protocol neighbor observation, before
// reconciliation. Remote identifiers are kept exactly as the protocol
// reported them; CDP and LLDP frequently disagree on format.
type NeighborRecord struct {
	Protocol            Protocol `json:"protocol"`
	LocalDevice         string   `json:"local_device"`
	LocalInterface      string   `json:"local_interface"`
	RemoteDevice        string   `json:"remote_device"`
	RemoteInterface     string   `json:"remote_interface"`
	Platform            string   `json:"platform,omitempty"`
	ManagementAddresses []string `json:"management_addresses,omitempty"`
}
