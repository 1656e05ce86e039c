// Package inventory loads the testbed inventory and provides device lookup.
package inventory

import (
	"fmt"

	"netlens/internal/domain"
)

// Registry holds the loaded device inventory. Pure lookup, no I/O.
// List order is the inventory definition order.
type Registry struct {
	devices []domain.Device
	byName  map[string]int
}

// NewRegistry builds a registry from an ordered device slice.
// Duplicate names are rejected.
func NewRegistry(devices []domain.Device) (*Registry, error) {
	r := &Registry{
		devices: make([]domain.Device, len(devices)),
		byName:  make(map[string]int, len(devices)),
	}
	copy(r.devices, devices)

	for i, d := range r.devices {
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("duplicate device name %q", d.Name)
		}
		r.byName[d.Name] = i
	}
	return r, nil
}

// Lookup returns the device with the given name, or a not-found OpError.
func (r *Registry) Lookup(name string) (*domain.Device, error) {
	i, ok := r.byName[name]
	if !ok {
		return nil, domain.NewOpError(domain.FailureNotFound, name, "lookup",
			fmt.Errorf("device not in testbed"))
	}
	d := r.devices[i]
	return &d, nil
}

// List returns all devices in inventory definition order.
func (r *Registry) List() []domain.Device {
	out := make([]domain.Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// Len returns the number of devices in the inventory.
func (r *Registry) Len() int {
	return len(r.devices)
}
