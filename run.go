package glrun

import (
	"fmt"

	"github.com/gogpu/glrun/driver"
)

// Value is one actual argument of a dispatch. The concrete types are Int,
// Float and the value returned by Tex; they must line up with the kernel's
// declared argument kinds and order.
type Value interface {
	isValue()
}

// Int is an integer scalar actual, bound to an int uniform.
type Int int32

// Float is a float scalar actual, bound to a float uniform.
type Float float32

// texValue carries the texture handle backing a buffer actual.
type texValue driver.Texture

func (Int) isValue()      {}
func (Float) isValue()    {}
func (texValue) isValue() {}

// Tex wraps a buffer as a dispatch actual. The buffer must have been
// through DevMalloc so its device slot carries a texture handle.
func Tex(buf *Buffer) Value {
	return texValue(textureID(buf))
}

// coerce narrows an actual to the representation its declared argument
// kind requires. A mismatch is a caller contract violation.
func coerce[T Value](v Value, arg Arg) T {
	out, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("glrun: argument %q is %T, want %v", arg.Name, v, arg.Kind))
	}
	return out
}

// DevRun dispatches the named kernel by drawing a full-screen quad into
// the framebuffer whose color attachment is the kernel's output texture.
//
// Block and thread counts and the shared memory size are part of the
// generic device ABI; the rasterizer covers the full output extent, so
// they are accepted and ignored. Actuals must match the kernel's declared
// arguments one to one; an arity mismatch or an actual of the wrong kind
// for its slot panics. Scalars bind as uniforms, input buffers as
// samplers on consecutive texture units, and the single output buffer as
// color attachment 0 (the target profile forbids more than one).
func (rt *Runtime) DevRun(
	name string,
	blocksX, blocksY, blocksZ int,
	threadsX, threadsY, threadsZ int,
	sharedMemBytes int,
	args []Value,
) error {
	if !rt.initialized {
		return ErrNotInitialized
	}

	kernel := rt.findKernel(name)
	if kernel == nil {
		rt.log.Warn("glrun: no kernel with entry name", "kernel", name)
		return fmt.Errorf("%w: %q", ErrKernelNotFound, name)
	}
	if kernel.program == 0 {
		rt.log.Warn("glrun: kernel was not built", "kernel", name)
		return fmt.Errorf("%w: %q", ErrKernelNotBuilt, name)
	}

	if len(args) > len(kernel.Args) {
		panic(fmt.Sprintf("glrun: too many arguments to kernel %q: got %d, declared %d",
			name, len(args), len(kernel.Args)))
	}
	if len(args) < len(kernel.Args) {
		panic(fmt.Sprintf("glrun: too few arguments to kernel %q: got %d, declared %d",
			name, len(args), len(kernel.Args)))
	}

	rt.gl.UseProgram(kernel.program)

	// Bind input arguments to uniforms and texture units. Outputs are
	// deferred to the framebuffer pass below.
	textureUnits := 0
	for i, arg := range kernel.Args {
		if arg.IsOutput {
			continue
		}
		loc := rt.gl.GetUniformLocation(kernel.program, arg.Name)
		if !loc.Valid() {
			// Probably optimized away by the GLSL compiler.
			rt.log.Debug("glrun: ignoring argument", "kernel", name, "arg", arg.Name)
			continue
		}
		switch arg.Kind {
		case KindInt:
			v := coerce[Int](args[i], arg)
			rt.log.Debug("glrun: int argument", "arg", arg.Name, "value", int32(v))
			rt.gl.Uniform1i(loc, int32(v))
		case KindFloat:
			v := coerce[Float](args[i], arg)
			rt.log.Debug("glrun: float argument", "arg", arg.Name, "value", float32(v))
			rt.gl.Uniform1f(loc, float32(v))
		case KindBuffer:
			v := coerce[texValue](args[i], arg)
			rt.log.Debug("glrun: buffer argument", "arg", arg.Name, "texture", uint32(v))
			rt.gl.ActiveTexture(driver.TEXTURE0 + driver.Enum(textureUnits))
			rt.gl.BindTexture(driver.TEXTURE_2D, driver.Texture(v))
			rt.gl.Uniform1i(loc, int32(textureUnits))
			textureUnits++
		default:
			panic(fmt.Sprintf("glrun: unexpected argument kind %v for %q", arg.Kind, arg.Name))
		}
	}

	// Attach the output texture to the framebuffer.
	var outputMin, outputExtent [2]int32
	rt.gl.BindFramebuffer(driver.FRAMEBUFFER, rt.framebuffer)
	rt.gl.Disable(driver.CULL_FACE)
	rt.gl.Disable(driver.DEPTH_TEST)

	outputs := 0
	for i, arg := range kernel.Args {
		if !arg.IsOutput {
			continue
		}
		if outputs >= 1 {
			panic("glrun: the ES 2.0 profile supports a single output texture")
		}
		tex, ok := args[i].(texValue)
		if !ok {
			panic(fmt.Sprintf("glrun: output argument %q is %T, want a buffer", arg.Name, args[i]))
		}

		rt.log.Debug("glrun: output texture", "arg", arg.Name, "texture", uint32(tex))
		rt.gl.FramebufferTexture2D(driver.FRAMEBUFFER, driver.COLOR_ATTACHMENT0+driver.Enum(outputs),
			driver.TEXTURE_2D, driver.Texture(tex), 0)

		rec := rt.findTexture(driver.Texture(tex))
		if rec == nil {
			panic(fmt.Sprintf("glrun: undefined output texture %d", tex))
		}
		outputMin[0], outputMin[1] = rec.min[0], rec.min[1]
		outputExtent[0], outputExtent[1] = rec.extent[0], rec.extent[1]
		outputs++
	}
	if outputs == 0 {
		rt.log.Warn("glrun: kernel has no output", "kernel", name)
		rt.unbindUnits(textureUnits)
		rt.gl.BindFramebuffer(driver.FRAMEBUFFER, 0)
		return nil
	}

	drawBuffers := make([]driver.Enum, outputs)
	for i := range drawBuffers {
		drawBuffers[i] = driver.COLOR_ATTACHMENT0 + driver.Enum(i)
	}
	rt.gl.DrawBuffers(drawBuffers)

	if status := rt.gl.CheckFramebufferStatus(driver.FRAMEBUFFER); status != driver.FRAMEBUFFER_COMPLETE {
		rt.log.Warn("glrun: framebuffer incomplete", "kernel", name,
			"status", fmt.Sprintf("%#x", uint32(status)))
		rt.unbindUnits(textureUnits)
		rt.gl.BindFramebuffer(driver.FRAMEBUFFER, 0)
		return fmt.Errorf("%w: status %#x", ErrFramebufferIncomplete, uint32(status))
	}

	// Publish the output geometry to the shared vertex shader.
	rt.gl.Uniform2i(rt.gl.GetUniformLocation(kernel.program, "output_extent"),
		outputExtent[0], outputExtent[1])
	rt.gl.Uniform2i(rt.gl.GetUniformLocation(kernel.program, "output_min"),
		outputMin[0], outputMin[1])

	// Coordinate transforms: identity modelview, unit orthographic
	// projection, viewport covering the output extent.
	rt.gl.MatrixMode(driver.MODELVIEW)
	rt.gl.LoadIdentity()
	rt.gl.MatrixMode(driver.PROJECTION)
	rt.gl.LoadIdentity()
	rt.gl.Ortho(-1, 1, -1, 1, 1, -1)
	rt.gl.Viewport(0, 0, outputExtent[0], outputExtent[1])

	// Draw the unit square as a triangle strip.
	position := rt.gl.GetAttribLocation(kernel.program, "position")
	rt.gl.BindBuffer(driver.ARRAY_BUFFER, rt.vertexBuffer)
	rt.gl.VertexAttribPointer(position, 2, driver.FLOAT, false, 2*4, 0)
	rt.gl.EnableVertexAttribArray(position)
	rt.gl.BindBuffer(driver.ELEMENT_ARRAY_BUFFER, rt.elementBuffer)
	rt.gl.DrawElements(driver.TRIANGLE_STRIP, 4, driver.UNSIGNED_INT, 0)
	rt.checkGLError("DrawElements")
	rt.gl.DisableVertexAttribArray(position)

	rt.unbindUnits(textureUnits)
	rt.gl.BindFramebuffer(driver.FRAMEBUFFER, 0)
	return nil
}

// unbindUnits unbinds every texture unit used by the dispatch.
func (rt *Runtime) unbindUnits(n int) {
	for i := 0; i < n; i++ {
		rt.gl.ActiveTexture(driver.TEXTURE0 + driver.Enum(i))
		rt.gl.BindTexture(driver.TEXTURE_2D, 0)
	}
}
