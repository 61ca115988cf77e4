package driver

import "sync"

// Factory creates a GL driver bound to the host's proc-address hook.
// It returns an error if a required entry point cannot be resolved.
type Factory func(getProcAddress ProcAddressFunc) (GL, error)

// Known driver names.
const (
	// DriverGL is the production driver backed by github.com/go-gl/gl.
	DriverGL = "gl"

	// DriverFake is the in-memory fake used by tests (driver/drivertest).
	DriverFake = "fake"
)

var (
	registryMu sync.RWMutex
	drivers    = make(map[string]Factory)
	// Priority order for driver selection (the earliest registered name
	// in this list wins, whatever the order of registration).
	driverPriority = []string{DriverGL, DriverFake}
)

// Register registers a driver factory with the given name.
// This is typically called from init() functions in driver packages.
// Registering a name twice replaces the earlier factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = factory
}

// Unregister removes a driver from the registry. Useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns the names of all registered drivers.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}

// Get returns the factory registered under name, or nil if none is.
func Get(name string) Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return drivers[name]
}

// Default returns the best available driver factory based on priority,
// or nil if no drivers are registered.
func Default() Factory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range driverPriority {
		if factory, ok := drivers[name]; ok {
			return factory
		}
	}
	return nil
}
