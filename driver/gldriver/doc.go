// Package gldriver implements the driver.GL interface on top of the
// github.com/go-gl/gl bindings (3.2 compatibility profile).
//
// The compatibility profile is required: the runtime's dispatch path uses
// the fixed-function matrix stack alongside framebuffer objects. The host
// must make its GL context current on the calling thread before New is
// called and keep it current for every runtime entry point.
package gldriver
