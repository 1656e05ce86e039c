package discovery

import (
	"sort"
	"strings"

	"netlens/internal/domain"
)

// MergePolicy controls conflict resolution when CDP and LLDP disagree about
// the same local interface. CDP is preferred by default: its device ID
// carries richer hostname semantics and its platform string names the
// specific hardware model, where LLDP may only advertise a chassis MAC.
type MergePolicy struct {
	Preferred domain.Protocol
}

// DefaultMergePolicy prefers CDP.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{Preferred: domain.ProtocolCDP}
}

// Reconciler merges the two per-protocol neighbor lists into one
// deduplicated adjacency list.
//
// Identity rule: two observations describe the same physical link exactly
// when their local interface names are equal under normalized comparison.
// Remote identifiers are never used for matching; the two protocols report
// them in incompatible formats for the same neighbor.
type Reconciler struct {
	policy MergePolicy
}

// NewReconciler creates a reconciler with the given policy.
func NewReconciler(policy MergePolicy) *Reconciler {
	if policy.Preferred == "" {
		policy.Preferred = domain.ProtocolCDP
	}
	return &Reconciler{policy: policy}
}

// Reconcile merges CDP and LLDP observations. Every local interface that
// appears in either input appears in exactly one output edge; an interface
// seen by only one protocol still produces an edge tagged with that protocol.
// Output is sorted by local device then normalized local interface, so the
// same inputs always yield the same sequence.
func (r *Reconciler) Reconcile(cdp, lldp []domain.NeighborRecord) []domain.AdjacencyEdge {
	primary, secondary := cdp, lldp
	if r.policy.Preferred == domain.ProtocolLLDP {
		primary, secondary = lldp, cdp
	}

	edges := make(map[string]*domain.AdjacencyEdge)
	var order []string

	absorb := func(records []domain.NeighborRecord) {
		for i := range records {
			rec := &records[i]
			if rec.LocalInterface == "" {
				continue
			}
			key := rec.LocalDevice + "\x00" + domain.InterfaceKey(rec.LocalInterface)
			edge, ok := edges[key]
			if !ok {
				edge = &domain.AdjacencyEdge{
					LocalDevice:    rec.LocalDevice,
					LocalInterface: domain.NormalizeInterface(rec.LocalInterface),
				}
				edges[key] = edge
				order = append(order, key)
			}
			r.merge(edge, rec)
		}
	}
	// Absorbing the preferred protocol first means its values land in the
	// primary fields and the other protocol's disagreements become aliases.
	absorb(primary)
	absorb(secondary)

	out := make([]domain.AdjacencyEdge, 0, len(order))
	for _, key := range order {
		out = append(out, *edges[key])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocalDevice != out[j].LocalDevice {
			return out[i].LocalDevice < out[j].LocalDevice
		}
		return strings.ToLower(out[i].LocalInterface) < strings.ToLower(out[j].LocalInterface)
	})
	return out
}

// merge folds one observation into an edge. Fields already set win; a later
// disagreeing value is retained in the alias field rather than discarded.
func (r *Reconciler) merge(edge *domain.AdjacencyEdge, rec *domain.NeighborRecord) {
	sameProtocolAgain := edge.HasProtocol(rec.Protocol)
	edge.AddProtocol(rec.Protocol)

	switch {
	case edge.RemoteDevice == "":
		edge.RemoteDevice = rec.RemoteDevice
	case rec.RemoteDevice != "" && rec.RemoteDevice != edge.RemoteDevice:
		if edge.RemoteDeviceAlias == "" {
			edge.RemoteDeviceAlias = rec.RemoteDevice
		}
		// One protocol seeing two distinct remotes on one local interface
		// means the link is not point-to-point.
		if sameProtocolAgain {
			edge.Ambiguous = true
		}
	}

	if edge.RemoteInterface == "" {
		edge.RemoteInterface = rec.RemoteInterface
	}

	switch {
	case edge.Platform == "":
		edge.Platform = rec.Platform
	case rec.Platform != "" && rec.Platform != edge.Platform:
		if edge.PlatformAlias == "" {
			edge.PlatformAlias = rec.Platform
		}
	}

	for _, addr := range rec.ManagementAddresses {
		edge.AddManagementAddress(addr)
	}
}
