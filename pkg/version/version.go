// Package version provides control interface version parsing, comparison
// and the embedded command manifests.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the control interface version implemented by this module.
const Current = "1.0"

var (
	// ErrMalformed is returned for strings that are not "major.minor".
	ErrMalformed = errors.New("malformed interface version")

	// ErrIncompatible is returned for a version whose major number differs
	// from Current.
	ErrIncompatible = errors.New("incompatible interface version")
)

// InterfaceVersion is a parsed control interface version. Minor revisions
// only add commands; a new major revision changes existing ones.
type InterfaceVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses "major.minor" with decimal components.
func Parse(s string) (InterfaceVersion, error) {
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok {
		return InterfaceVersion{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	major, err := strconv.ParseUint(majorStr, 10, 16)
	if err != nil {
		return InterfaceVersion{}, fmt.Errorf("%w: %q: major", ErrMalformed, s)
	}
	minor, err := strconv.ParseUint(minorStr, 10, 16)
	if err != nil {
		return InterfaceVersion{}, fmt.Errorf("%w: %q: minor", ErrMalformed, s)
	}
	return InterfaceVersion{Major: uint16(major), Minor: uint16(minor)}, nil
}

func (v InterfaceVersion) String() string {
	return strconv.Itoa(int(v.Major)) + "." + strconv.Itoa(int(v.Minor))
}

// Compatible reports whether both versions share a major revision.
func (v InterfaceVersion) Compatible(other InterfaceVersion) bool {
	return v.Major == other.Major
}

// CheckCompatible parses s and returns ErrIncompatible when it cannot be
// served by this module.
func CheckCompatible(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	cur, err := Parse(Current)
	if err != nil {
		return err
	}
	if !cur.Compatible(v) {
		return fmt.Errorf("%w: %s, this build implements %s", ErrIncompatible, v, cur)
	}
	return nil
}

// Banner returns the one-line version string printed by the tools.
func Banner(tool string) string {
	return fmt.Sprintf("%s (control interface %s)", tool, Current)
}
