package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vdevs/vdevs-go/pkg/vdev"
)

// Config is a device table.
type Config struct {
	Devices []Device `yaml:"devices"`
}

// Device describes one device to probe.
type Device struct {
	// Name is the platform name, e.g. "vDev-Ax". It is informational; the
	// node name is assigned by the registry.
	Name string `yaml:"name"`

	// Size is the buffer capacity in bytes.
	Size int `yaml:"size"`

	// Permission constrains which sessions may be opened.
	Permission Permission `yaml:"permission"`

	// Serial is the device serial number.
	Serial string `yaml:"serial"`
}

// Permission wraps vdev.Permission with YAML encoding.
type Permission vdev.Permission

// UnmarshalYAML accepts permission names or their numeric values.
func (p *Permission) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: permission must be a scalar", node.Line)
	}
	perm, err := vdev.ParsePermission(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = Permission(perm)
	return nil
}

// MarshalYAML writes the lower-case permission name.
func (p Permission) MarshalYAML() (interface{}, error) {
	switch vdev.Permission(p) {
	case vdev.PermReadOnly:
		return "rdonly", nil
	case vdev.PermWriteOnly:
		return "wronly", nil
	case vdev.PermReadWrite:
		return "rdwr", nil
	default:
		return nil, fmt.Errorf("%w: unknown permission %d", vdev.ErrInvalidConfig, uint8(p))
	}
}

// VDevConfig converts the entry to an instance configuration.
func (d Device) VDevConfig() vdev.Config {
	return vdev.Config{
		Capacity:     d.Size,
		Permission:   vdev.Permission(d.Permission),
		SerialNumber: d.Serial,
	}
}

// Validate checks every device entry.
func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return &LoadError{Message: "at least one device is required", Cause: vdev.ErrInvalidConfig}
	}
	seen := make(map[string]int, len(c.Devices))
	for i, d := range c.Devices {
		if err := d.VDevConfig().Validate(); err != nil {
			return &LoadError{Message: fmt.Sprintf("device %d (%s)", i, d.Name), Cause: err}
		}
		if d.Name == "" {
			continue
		}
		if prev, dup := seen[d.Name]; dup {
			return &LoadError{
				Message: fmt.Sprintf("device %d: name %q already used by device %d", i, d.Name, prev),
				Cause:   vdev.ErrInvalidConfig,
			}
		}
		seen[d.Name] = i
	}
	return nil
}

// Parse parses and validates a device table.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a device table file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	c, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: err.Error()}
	}
	return c, nil
}

// Default returns the four platform devices.
func Default() *Config {
	return &Config{
		Devices: []Device{
			{Name: "vDev-Ax", Size: 512, Permission: Permission(vdev.PermReadWrite), Serial: "VDEV-AX-1111"},
			{Name: "vDev-Bx", Size: 1024, Permission: Permission(vdev.PermReadOnly), Serial: "VDEV-BX-2222"},
			{Name: "vDev-Cx", Size: 256, Permission: Permission(vdev.PermWriteOnly), Serial: "VDEV-CX-3333"},
			{Name: "vDev-Dx", Size: 4096, Permission: Permission(vdev.PermReadWrite), Serial: "VDEV-DX-4444"},
		},
	}
}

// Marshal encodes the table as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
