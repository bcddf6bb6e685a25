//go:build tools

package tools

// Mocks under pkg/log/mocks are generated by mockery v3, used as an
// installed binary rather than a module import. Run: mockery (from the
// repository root) after changing log.Logger.
