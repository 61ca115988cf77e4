// Package drivertest provides an in-memory fake of driver.GL for tests.
//
// The fake keeps real byte storage for textures so upload/readback
// round-trips can be verified bitwise, tracks binding state the way a GL
// implementation would, and records every call except the status and
// location queries in order. Shader
// compilation succeeds unless the source contains the "#error" marker;
// link failure and framebuffer status are programmable per test.
package drivertest
