// Package glrun is an OpenGL execution runtime for ahead-of-time image
// pipeline compilers.
//
// # Overview
//
// A compiler that targets OpenGL as a compute device emits GLSL fragment
// shaders annotated with structured comments describing kernel entry points
// and their typed arguments. glrun compiles those shaders, manages the
// textures that back compiler-visible buffers, transfers pixel data between
// host memory and textures, and dispatches a kernel by drawing a
// full-screen quad whose fragment shader computes one output pixel per
// invocation.
//
// # Quick Start
//
//	rt, err := glrun.New(glrun.WithDriver(gl))
//	if err != nil { ... }
//	if err := rt.Open(); err != nil { ... }
//	defer rt.Release()
//
//	rt.InitKernels(src)          // compile all kernels in the source blob
//	rt.DevMalloc(in)             // bind buffers to textures
//	rt.DevMalloc(out)
//	rt.CopyToDev(in)             // upload dirty host pixels
//	rt.DevRun("blur", 1, 1, 1, 0, 0, 0, 0, []glrun.Value{
//		glrun.Tex(in), glrun.Tex(out),
//	})
//	rt.CopyToHost(out)           // read back the result
//
// A process-wide default runtime behind the package-level functions keeps
// the original host ABI shape; new code should hold an explicit *Runtime.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Runtime, Buffer, Value
//   - driver: the GL entry-point contract and driver registry
//   - driver/gldriver: production driver over github.com/go-gl/gl
//   - ir, ir/glsllower: the compiler-side lowering that produces the
//     annotated GLSL and coordinate contract this runtime consumes
//
// # Threading
//
// All entry points must run on the thread that owns the GL context,
// serialized by the caller. The runtime adds no locking of its own.
package glrun
