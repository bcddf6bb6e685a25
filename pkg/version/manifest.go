package version

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vdevs/vdevs-go/pkg/wire"
)

//go:embed interfaces/*.yaml
var interfaceFS embed.FS

// Manifest describes the control commands of an interface version.
type Manifest struct {
	Version     string       `yaml:"version"`
	Description string       `yaml:"description"`
	Magic       uint8        `yaml:"magic"`
	Commands    []CommandDef `yaml:"commands"`
}

// CommandDef is one control command.
type CommandDef struct {
	Name        string `yaml:"name"`
	Nr          uint8  `yaml:"nr"`
	Dir         string `yaml:"dir"`
	Size        uint16 `yaml:"size"`
	Mandatory   bool   `yaml:"mandatory"`
	Description string `yaml:"description"`
}

// Cmd returns the command number of the definition within family magic.
func (c CommandDef) Cmd(magic uint8) (wire.Cmd, error) {
	var dir wire.Dir
	switch strings.ToLower(c.Dir) {
	case "", "none":
		dir = wire.DirNone
	case "write":
		dir = wire.DirWrite
	case "read":
		dir = wire.DirRead
	case "readwrite":
		dir = wire.DirReadWrite
	default:
		return 0, fmt.Errorf("command %s: unknown direction %q", c.Name, c.Dir)
	}
	return wire.NewCmd(dir, magic, c.Nr, c.Size), nil
}

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Manifest)
)

// LoadManifest loads a manifest by version string (e.g. "1.0").
func LoadManifest(ver string) (*Manifest, error) {
	cacheMu.RLock()
	if m, ok := cache[ver]; ok {
		cacheMu.RUnlock()
		return m, nil
	}
	cacheMu.RUnlock()

	data, err := interfaceFS.ReadFile("interfaces/" + ver + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("interface version %q not found: %w", ver, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing interface %q: %w", ver, err)
	}
	declared, err := Parse(m.Version)
	if err != nil {
		return nil, fmt.Errorf("interface %q: %w", ver, err)
	}
	if declared.String() != ver {
		return nil, fmt.Errorf("interface %q declares version %s", ver, declared)
	}

	cacheMu.Lock()
	cache[ver] = &m
	cacheMu.Unlock()

	return &m, nil
}

// LoadCurrentManifest loads the manifest for the current interface version.
func LoadCurrentManifest() (*Manifest, error) {
	return LoadManifest(Current)
}

// AvailableManifests returns the version strings of all embedded manifests.
func AvailableManifests() ([]string, error) {
	entries, err := interfaceFS.ReadDir("interfaces")
	if err != nil {
		return nil, fmt.Errorf("reading interfaces directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") {
			versions = append(versions, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// CommandByName looks up a command definition.
func (m *Manifest) CommandByName(name string) (*CommandDef, bool) {
	for i := range m.Commands {
		if strings.EqualFold(m.Commands[i].Name, name) {
			return &m.Commands[i], true
		}
	}
	return nil, false
}

// ValidationResult holds the outcome of checking a driver against a manifest.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// ValidateCommands checks that every mandatory command of m is in supported
// and warns about supported commands the manifest does not know.
func ValidateCommands(m *Manifest, supported []wire.Cmd) ValidationResult {
	var result ValidationResult

	have := make(map[wire.Cmd]bool, len(supported))
	for _, c := range supported {
		have[c] = true
	}

	known := make(map[wire.Cmd]bool, len(m.Commands))
	for _, def := range m.Commands {
		cmd, err := def.Cmd(m.Magic)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		known[cmd] = true
		if def.Mandatory && !have[cmd] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("missing mandatory command %s (%s)", def.Name, cmd))
		}
	}

	for _, c := range supported {
		if !known[c] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("command %s not in interface %s", c, m.Version))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
