// Package driver defines the OpenGL entry points the glrun runtime needs
// from its host environment.
//
// The runtime never links against an OpenGL implementation directly.
// Instead it talks to the GL interface, a fixed table of typed wrappers
// around the small subset of GL 2.x + framebuffer-object calls the runtime
// uses. Implementations are registered by name via Register and selected
// with Get or Default.
//
// The production implementation lives in driver/gldriver and resolves the
// table through a host-supplied proc-address hook. Tests use the in-memory
// fake in driver/drivertest.
package driver
