package domain

import (
	"fmt"
	"strconv"
)

// Dialect identifies the command-syntax and output variant of a device OS.
type Dialect string

const (
	DialectIOS   Dialect = "ios"
	DialectIOSXE Dialect = "iosxe"
	DialectNXOS  Dialect = "nxos"
)

// DefaultSSHPort is used when an inventory entry omits the port.
const DefaultSSHPort = 22

// Credentials holds authentication material for a device connection.
// Either Password or PrivateKey must be set; PrivateKey wins when both are.
type Credentials struct {
	Username   string
	Password   string
	PrivateKey string
	Passphrase string
}

// Device describes one inventory entry and how to reach it.
// Immutable once loaded; owned by the inventory registry.
type Device struct {
	Name     string
	OS       Dialect
	Type     string
	Role     string
	Protocol string
	Host     string
	Port     int
	Creds    Credentials
}

// Address returns the host:port dial target for the device.
func (d *Device) Address() string {
	port := d.Port
	if port == 0 {
		port = DefaultSSHPort
	}
	return d.Host + ":" + strconv.Itoa(port)
}

// Validate checks the fields the session layer depends on.
func (d *Device) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("device has no name")
	}
	if d.Host == "" {
		return fmt.Errorf("device %s has no host", d.Name)
	}
	if d.Creds.Username == "" {
		return fmt.Errorf("device %s has no username", d.Name)
	}
	if d.Creds.Password == "" && d.Creds.PrivateKey == "" {
		return fmt.Errorf("device %s has no password or private key", d.Name)
	}
	return nil
}
