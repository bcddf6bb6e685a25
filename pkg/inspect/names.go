package inspect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vdevs/vdevs-go/pkg/vdev"
	"github.com/vdevs/vdevs-go/pkg/version"
	"github.com/vdevs/vdevs-go/pkg/wire"
)

// commandNames maps the known control commands to their numbers.
var commandNames = map[string]wire.Cmd{}

func init() {
	m, err := version.LoadCurrentManifest()
	if err != nil {
		panic("inspect: " + err.Error())
	}
	for _, def := range m.Commands {
		cmd, err := def.Cmd(vdev.Magic)
		if err != nil {
			panic("inspect: " + err.Error())
		}
		commandNames[strings.ToLower(def.Name)] = cmd
	}
}

// ResolveCommandName resolves a command name (case-insensitive) or a raw
// command number in decimal or hex.
func ResolveCommandName(name string) (wire.Cmd, bool) {
	lname := strings.ToLower(strings.TrimSpace(name))
	if cmd, ok := commandNames[lname]; ok {
		return cmd, true
	}
	v, err := strconv.ParseUint(lname, 0, 32)
	if err != nil {
		return 0, false
	}
	return wire.Cmd(v), true
}

// CommandName returns the name of a known command, or the decoded command
// number otherwise.
func CommandName(cmd wire.Cmd) string {
	for name, c := range commandNames {
		if c == cmd {
			return name
		}
	}
	return cmd.String()
}

// CommandNames returns the known command names in sorted order.
func CommandNames() []string {
	names := make([]string, 0, len(commandNames))
	for name := range commandNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommandHelp returns one "name  description" line per known command, in
// name order.
func CommandHelp() []string {
	m, err := version.LoadCurrentManifest()
	if err != nil {
		return CommandNames()
	}
	names := CommandNames()
	lines := make([]string, 0, len(names))
	for _, name := range names {
		line := name
		if def, ok := m.CommandByName(name); ok && def.Description != "" {
			line = fmt.Sprintf("%-10s %s", name, def.Description)
		}
		lines = append(lines, line)
	}
	return lines
}
