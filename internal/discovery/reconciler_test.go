package discovery

import (
	"math/rand"
	"reflect"
	"testing"

	"netlens/internal/domain"
)

func cdpRecord(localIntf, remote string) domain.NeighborRecord {
	return domain.NeighborRecord{
		Protocol:       domain.ProtocolCDP,
		LocalDevice:    "rtr1",
		LocalInterface: localIntf,
		RemoteDevice:   remote,
	}
}

func lldpRecord(localIntf, remote string) domain.NeighborRecord {
	return domain.NeighborRecord{
		Protocol:       domain.ProtocolLLDP,
		LocalDevice:    "rtr1",
		LocalInterface: localIntf,
		RemoteDevice:   remote,
	}
}

func TestReconcileMergesProtocols(t *testing.T) {
	// CDP and LLDP report the same link under different interface spellings
	// and different remote identifiers.
	cdp := []domain.NeighborRecord{
		{
			Protocol:        domain.ProtocolCDP,
			LocalDevice:     "rtr1",
			LocalInterface:  "Gi0/1",
			RemoteDevice:    "rtr2",
			RemoteInterface: "Gi0/2",
			Platform:        "ISR4451",
		},
	}
	lldp := []domain.NeighborRecord{
		{
			Protocol:            domain.ProtocolLLDP,
			LocalDevice:         "rtr1",
			LocalInterface:      "GigabitEthernet0/1",
			RemoteDevice:        "rtr2.lab",
			RemoteInterface:     "Gi0/2",
			ManagementAddresses: []string{"10.0.0.2"},
		},
	}

	edges := NewReconciler(DefaultMergePolicy()).Reconcile(cdp, lldp)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}

	edge := edges[0]
	if edge.LocalInterface != "Gi0/1" {
		t.Errorf("local interface = %q, want normalized Gi0/1", edge.LocalInterface)
	}
	if edge.RemoteDevice != "rtr2" {
		t.Errorf("remote device = %q, want CDP value rtr2", edge.RemoteDevice)
	}
	if edge.RemoteDeviceAlias != "rtr2.lab" {
		t.Errorf("remote device alias = %q, want LLDP value rtr2.lab", edge.RemoteDeviceAlias)
	}
	if edge.Platform != "ISR4451" {
		t.Errorf("platform = %q, want ISR4451", edge.Platform)
	}
	if len(edge.ManagementAddresses) != 1 || edge.ManagementAddresses[0] != "10.0.0.2" {
		t.Errorf("management addresses = %v, want [10.0.0.2]", edge.ManagementAddresses)
	}
	if len(edge.Protocols) != 2 || edge.Protocols[0] != domain.ProtocolCDP || edge.Protocols[1] != domain.ProtocolLLDP {
		t.Errorf("protocols = %v, want [cdp lldp]", edge.Protocols)
	}
}

func TestReconcileCoversEveryInterfaceExactlyOnce(t *testing.T) {
	cdp := []domain.NeighborRecord{
		cdpRecord("Gi0/1", "rtr2"),
		cdpRecord("Gi0/2", "sw1"),
		cdpRecord("Gi0/3", "sw2"),
	}
	lldp := []domain.NeighborRecord{
		lldpRecord("GigabitEthernet0/2", "sw1.lab"),
		lldpRecord("GigabitEthernet0/4", "ap1"),
	}

	edges := NewReconciler(DefaultMergePolicy()).Reconcile(cdp, lldp)

	seen := make(map[string]int)
	for _, edge := range edges {
		seen[domain.InterfaceKey(edge.LocalInterface)]++
	}
	for _, rec := range append(cdp, lldp...) {
		key := domain.InterfaceKey(rec.LocalInterface)
		if seen[key] != 1 {
			t.Errorf("interface %s appears %d times, want exactly 1", rec.LocalInterface, seen[key])
		}
	}
	if len(edges) != 4 {
		t.Errorf("expected 4 edges, got %d", len(edges))
	}
}

func TestReconcileUnmatchedRecordsKeepSingleProtocolTag(t *testing.T) {
	edges := NewReconciler(DefaultMergePolicy()).Reconcile(
		[]domain.NeighborRecord{cdpRecord("Gi0/1", "rtr2")},
		[]domain.NeighborRecord{lldpRecord("Gi0/9", "ap1")},
	)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}

	for _, edge := range edges {
		if len(edge.Protocols) != 1 {
			t.Errorf("edge %s has protocols %v, want one", edge.LocalInterface, edge.Protocols)
		}
	}
	if !edges[0].HasProtocol(domain.ProtocolCDP) {
		t.Errorf("Gi0/1 edge should be cdp-only, got %v", edges[0].Protocols)
	}
	if !edges[1].HasProtocol(domain.ProtocolLLDP) {
		t.Errorf("Gi0/9 edge should be lldp-only, got %v", edges[1].Protocols)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	cdp := []domain.NeighborRecord{cdpRecord("Gi0/1", "rtr2"), cdpRecord("Gi0/2", "sw1")}
	lldp := []domain.NeighborRecord{lldpRecord("GigabitEthernet0/1", "rtr2.lab")}

	r := NewReconciler(DefaultMergePolicy())
	first := r.Reconcile(cdp, lldp)
	second := r.Reconcile(cdp, lldp)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("reconcile not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestReconcileOrderIndependent(t *testing.T) {
	cdp := []domain.NeighborRecord{
		cdpRecord("Gi0/1", "rtr2"),
		cdpRecord("Gi0/2", "sw1"),
		cdpRecord("Gi0/3", "sw2"),
	}
	lldp := []domain.NeighborRecord{
		lldpRecord("GigabitEthernet0/1", "rtr2.lab"),
		lldpRecord("GigabitEthernet0/3", "sw2.lab"),
	}

	r := NewReconciler(DefaultMergePolicy())
	want := r.Reconcile(cdp, lldp)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffledCDP := append([]domain.NeighborRecord(nil), cdp...)
		shuffledLLDP := append([]domain.NeighborRecord(nil), lldp...)
		rng.Shuffle(len(shuffledCDP), func(a, b int) {
			shuffledCDP[a], shuffledCDP[b] = shuffledCDP[b], shuffledCDP[a]
		})
		rng.Shuffle(len(shuffledLLDP), func(a, b int) {
			shuffledLLDP[a], shuffledLLDP[b] = shuffledLLDP[b], shuffledLLDP[a]
		})

		got := r.Reconcile(shuffledCDP, shuffledLLDP)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("shuffle %d changed output:\nwant: %+v\ngot:  %+v", i, want, got)
		}
	}
}

func TestReconcileManagementAddressUnion(t *testing.T) {
	cdp := []domain.NeighborRecord{{
		Protocol:            domain.ProtocolCDP,
		LocalDevice:         "rtr1",
		LocalInterface:      "Gi0/1",
		RemoteDevice:        "rtr2",
		ManagementAddresses: []string{"10.0.0.2", "10.0.1.2"},
	}}
	lldp := []domain.NeighborRecord{{
		Protocol:            domain.ProtocolLLDP,
		LocalDevice:         "rtr1",
		LocalInterface:      "GigabitEthernet0/1",
		RemoteDevice:        "rtr2",
		ManagementAddresses: []string{"10.0.0.2", "192.168.1.2"},
	}}

	edges := NewReconciler(DefaultMergePolicy()).Reconcile(cdp, lldp)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}

	// Union deduplicated by literal value, CDP addresses first.
	want := []string{"10.0.0.2", "10.0.1.2", "192.168.1.2"}
	if !reflect.DeepEqual(edges[0].ManagementAddresses, want) {
		t.Errorf("management addresses = %v, want %v", edges[0].ManagementAddresses, want)
	}
}

func TestReconcileLLDPPreferredPolicy(t *testing.T) {
	cdp := []domain.NeighborRecord{cdpRecord("Gi0/1", "rtr2")}
	lldp := []domain.NeighborRecord{lldpRecord("GigabitEthernet0/1", "rtr2.lab")}

	edges := NewReconciler(MergePolicy{Preferred: domain.ProtocolLLDP}).Reconcile(cdp, lldp)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].RemoteDevice != "rtr2.lab" {
		t.Errorf("remote device = %q, want LLDP value rtr2.lab", edges[0].RemoteDevice)
	}
	if edges[0].RemoteDeviceAlias != "rtr2" {
		t.Errorf("alias = %q, want CDP value rtr2", edges[0].RemoteDeviceAlias)
	}
}

func TestReconcileAmbiguousMultipleRemotes(t *testing.T) {
	// One protocol reporting two distinct remotes on the same local
	// interface (hub in the middle) collapses to one flagged edge.
	cdp := []domain.NeighborRecord{
		cdpRecord("Gi0/1", "sw1"),
		cdpRecord("Gi0/1", "sw2"),
	}

	edges := NewReconciler(DefaultMergePolicy()).Reconcile(cdp, nil)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if !edges[0].Ambiguous {
		t.Error("expected ambiguity flag for multiple remotes on one interface")
	}
	if edges[0].RemoteDevice != "sw1" || edges[0].RemoteDeviceAlias != "sw2" {
		t.Errorf("expected first-seen remote with alias, got %q / %q",
			edges[0].RemoteDevice, edges[0].RemoteDeviceAlias)
	}
}

func TestReconcileFillsGapsFromSecondary(t *testing.T) {
	// CDP saw the link but without platform or addresses; LLDP supplies them.
	cdp := []domain.NeighborRecord{cdpRecord("Gi0/1", "rtr2")}
	lldp := []domain.NeighborRecord{{
		Protocol:            domain.ProtocolLLDP,
		LocalDevice:         "rtr1",
		LocalInterface:      "GigabitEthernet0/1",
		RemoteDevice:        "rtr2",
		RemoteInterface:     "Gi0/2",
		Platform:            "Cisco IOS Software",
		ManagementAddresses: []string{"10.0.0.2"},
	}}

	edges := NewReconciler(DefaultMergePolicy()).Reconcile(cdp, lldp)
	edge := edges[0]
	if edge.RemoteInterface != "Gi0/2" {
		t.Errorf("remote interface = %q, want LLDP fill-in Gi0/2", edge.RemoteInterface)
	}
	if edge.Platform != "Cisco IOS Software" {
		t.Errorf("platform = %q, want LLDP fill-in", edge.Platform)
	}
	if edge.RemoteDeviceAlias != "" {
		t.Errorf("no alias expected when identifiers agree, got %q", edge.RemoteDeviceAlias)
	}
}

func TestReconcileSortsByDeviceThenInterface(t *testing.T) {
	cdp := []domain.NeighborRecord{
		{Protocol: domain.ProtocolCDP, LocalDevice: "rtr2", LocalInterface: "Gi0/1", RemoteDevice: "x"},
		{Protocol: domain.ProtocolCDP, LocalDevice: "rtr1", LocalInterface: "Gi0/2", RemoteDevice: "y"},
		{Protocol: domain.ProtocolCDP, LocalDevice: "rtr1", LocalInterface: "Gi0/1", RemoteDevice: "z"},
	}

	edges := NewReconciler(DefaultMergePolicy()).Reconcile(cdp, nil)
	got := make([][2]string, 0, len(edges))
	for _, e := range edges {
		got = append(got, [2]string{e.LocalDevice, e.LocalInterface})
	}
	want := [][2]string{{"rtr1", "Gi0/1"}, {"rtr1", "Gi0/2"}, {"rtr2", "Gi0/1"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort order = %v, want %v", got, want)
	}
}
