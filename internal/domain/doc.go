// Package domain defines the core domain types for the netlens network fact server.
//
// This package contains the entities and value objects the discovery pipeline
// passes between stages. It has no I/O and no dependencies outside the
// standard library.
//
// # Core Types
//
// Device describes one inventory entry: identity, OS dialect, role, and the
// connection parameters needed to reach its management interface.
//
// NeighborRecord is a single per-protocol neighbor observation (CDP or LLDP)
// as parsed from a device, before reconciliation.
//
// AdjacencyEdge is the canonical, deduplicated representation of one physical
// link after CDP and LLDP observations have been merged.
//
// VersionFact is the structured result of a version query.
//
// # Errors
//
// OpError carries a FailureKind so callers can distinguish unknown devices,
// connect timeouts, authentication failures, transport errors, and command
// timeouts without string matching.
//
// # Interface Names
//
// CDP and LLDP frequently report the same interface under different spellings
// ("Gi0/1" vs "GigabitEthernet0/1"). NormalizeInterface canonicalizes a name
// to its short form so observations of the same link compare equal.
package domain
