package driver

import "errors"

// Common driver errors.
var (
	// ErrDriverNotAvailable is returned when a requested driver is not registered.
	ErrDriverNotAvailable = errors.New("driver: not available")

	// ErrSymbolMissing is returned when a required GL entry point cannot be
	// resolved through the proc-address hook.
	ErrSymbolMissing = errors.New("driver: GL symbol missing")
)
