// Package registry tracks live device instances and the sessions open
// against them.
//
// Identifiers are assigned in registration order starting at 0 and are
// never reused within a registry. An instance cannot be unregistered while
// sessions are open on it; Shutdown force-closes every session and removes
// every instance.
//
// Basic usage:
//
//	reg := registry.New(registry.Config{Logger: slog.Default()})
//	inst, err := reg.Register(vdev.Config{Capacity: 512, Permission: vdev.PermReadWrite})
//	s, err := reg.Open(inst.ID(), vdev.ModeReadWrite)
//	defer s.Close()
package registry
