package inventory

import (
	"fmt"
	"os"

	"netlens/internal/domain"

	"gopkg.in/yaml.v3"
)

// TestbedYAML represents the testbed file structure. Devices is kept as a raw
// node so inventory definition order survives decoding; yaml maps would not
// preserve it.
type TestbedYAML struct {
	Testbed struct {
		Name string `yaml:"name"`
	} `yaml:"testbed"`
	Devices yaml.Node `yaml:"devices"`
}

// DeviceYAML represents one device entry
type DeviceYAML struct {
	OS          string                     `yaml:"os"`
	Type        string                     `yaml:"type,omitempty"`
	Role        string                     `yaml:"role,omitempty"`
	Connections map[string]*ConnectionYAML `yaml:"connections"`
	Credentials map[string]*CredentialYAML `yaml:"credentials"`
}

// ConnectionYAML represents one named connection (the "cli" entry is used)
type ConnectionYAML struct {
	Protocol string `yaml:"protocol,omitempty"`
	IP       string `yaml:"ip"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
}

// CredentialYAML represents one named credential set (the "default" entry is used)
type CredentialYAML struct {
	Username   string `yaml:"username"`
	Password   string `yaml:"password,omitempty"`
	PrivateKey string `yaml:"private_key,omitempty"`
	Passphrase string `yaml:"passphrase,omitempty"`
}

// LoadTestbed loads a testbed inventory from a YAML file and returns a
// registry over it.
func LoadTestbed(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read testbed: %w", err)
	}
	return ParseTestbed(data)
}

// ParseTestbed parses a testbed inventory from YAML bytes.
func ParseTestbed(data []byte) (*Registry, error) {
	var tb TestbedYAML
	if err := yaml.Unmarshal(data, &tb); err != nil {
		return nil, fmt.Errorf("parse testbed: %w", err)
	}

	devices, err := decodeDevices(&tb.Devices)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("testbed defines no devices")
	}

	return NewRegistry(devices)
}

// decodeDevices walks the devices mapping node in document order.
func decodeDevices(node *yaml.Node) ([]domain.Device, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("devices section must be a mapping")
	}

	var devices []domain.Device
	// Mapping node content alternates key, value.
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var entry DeviceYAML
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return nil, fmt.Errorf("device %s: %w", name, err)
		}

		device, err := convertDevice(name, &entry)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *device)
	}
	return devices, nil
}

func convertDevice(name string, y *DeviceYAML) (*domain.Device, error) {
	device := &domain.Device{
		Name: name,
		OS:   domain.Dialect(y.OS),
		Type: y.Type,
		Role: y.Role,
	}

	cli, ok := y.Connections["cli"]
	if !ok || cli == nil {
		return nil, fmt.Errorf("device %s: no cli connection defined", name)
	}
	device.Protocol = cli.Protocol
	if device.Protocol == "" {
		device.Protocol = "ssh"
	}
	device.Host = cli.IP
	if device.Host == "" {
		device.Host = cli.Host
	}
	device.Port = cli.Port

	if creds, ok := y.Credentials["default"]; ok && creds != nil {
		device.Creds = domain.Credentials{
			Username:   creds.Username,
			Password:   creds.Password,
			PrivateKey: creds.PrivateKey,
			Passphrase: creds.Passphrase,
		}
	}

	if err := device.Validate(); err != nil {
		return nil, fmt.Errorf("testbed: %w", err)
	}
	return device, nil
}
