package glrun

import "errors"

// Runtime errors.
var (
	// ErrNotInitialized is returned when a runtime entry point is called
	// before Open succeeded.
	ErrNotInitialized = errors.New("glrun: runtime not initialized")

	// ErrKernelNotFound is returned by DevRun for an unknown entry name.
	ErrKernelNotFound = errors.New("glrun: kernel not found")

	// ErrKernelNotBuilt is returned by DevRun when the kernel's shader
	// failed to compile or link during InitKernels.
	ErrKernelNotBuilt = errors.New("glrun: kernel failed to build")

	// ErrBadKernelSource is returned by InitKernels for a malformed
	// kernel header block.
	ErrBadKernelSource = errors.New("glrun: malformed kernel source")

	// ErrUnsupportedFormat is returned by DevMalloc for channel counts or
	// element sizes the texture path cannot represent.
	ErrUnsupportedFormat = errors.New("glrun: unsupported buffer format")

	// ErrUnsupportedLayout is returned by the transfer functions for
	// buffers that are not tightly packed interleaved.
	ErrUnsupportedLayout = errors.New("glrun: unsupported buffer layout")

	// ErrFramebufferIncomplete is returned by DevRun when the output
	// attachment does not produce a complete framebuffer.
	ErrFramebufferIncomplete = errors.New("glrun: framebuffer incomplete")

	// ErrVertexShader is returned by Open when the shared vertex shader
	// fails to compile.
	ErrVertexShader = errors.New("glrun: vertex shader failed to compile")
)
