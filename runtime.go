package glrun

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/glrun/driver"
)

// vertexShaderSrc is the shared vertex shader attached to every kernel
// program. It forwards position to clip coordinates and derives the
// pixcoord varying the generated fragment shaders consume:
//
//	pixcoord = floor((position * 0.5 + 0.5) * output_extent) + output_min
const vertexShaderSrc = `#version 120
attribute vec2 position;
varying vec2 pixcoord;
uniform ivec2 output_min;
uniform ivec2 output_extent;
void main() {
    gl_Position = vec4(position, 0.0, 1.0);
    vec2 texcoord = 0.5 * position + 0.5;
    pixcoord = floor(texcoord * output_extent) + output_min;
}
`

// Vertex coordinates for the unit square.
var squareVertices = [...]float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

// Triangle-strip index order for the unit square.
var squareIndices = [...]uint32{0, 1, 2, 3}

// Runtime is the OpenGL execution runtime. It owns the kernel and texture
// registries and the GL objects shared by all kernels.
//
// All methods must be called from the thread that owns the GL context.
type Runtime struct {
	gl  driver.GL
	log *slog.Logger

	initialized bool

	// Objects shared by all filter kernels.
	vertexShader  driver.Shader
	framebuffer   driver.Framebuffer
	vertexBuffer  driver.Buffer
	elementBuffer driver.Buffer

	kernels     map[string]*Kernel
	kernelOrder []string

	textures map[driver.Texture]*textureRecord
}

// Option configures a Runtime during creation.
type Option func(*runtimeOptions)

type runtimeOptions struct {
	gl             driver.GL
	getProcAddress driver.ProcAddressFunc
	logger         *slog.Logger
}

// WithDriver supplies an already-constructed GL driver. Use this for
// dependency injection of the drivertest fake.
func WithDriver(gl driver.GL) Option {
	return func(o *runtimeOptions) {
		o.gl = gl
	}
}

// WithProcAddress supplies the host's GL proc-address hook. The default
// registered driver is constructed with it on New.
func WithProcAddress(getProcAddress driver.ProcAddressFunc) Option {
	return func(o *runtimeOptions) {
		o.getProcAddress = getProcAddress
	}
}

// WithLogger sets a runtime-local logger. Defaults to the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *runtimeOptions) {
		o.logger = l
	}
}

// New creates a runtime bound to a GL driver. Without WithDriver, the best
// registered driver factory is used, constructed with the proc-address hook
// from WithProcAddress. The returned runtime is closed; call Open before
// using it.
func New(opts ...Option) (*Runtime, error) {
	var o runtimeOptions
	for _, opt := range opts {
		opt(&o)
	}
	gl := o.gl
	if gl == nil {
		factory := driver.Default()
		if factory == nil {
			return nil, driver.ErrDriverNotAvailable
		}
		var err error
		gl, err = factory(o.getProcAddress)
		if err != nil {
			return nil, err
		}
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}
	return &Runtime{gl: gl, log: log}, nil
}

// Open initializes the runtime: it compiles the shared vertex shader and
// creates the framebuffer and the unit-square vertex and element buffers.
// Open is idempotent; a second call on an initialized runtime is a no-op.
func (rt *Runtime) Open() error {
	if rt.initialized {
		return nil
	}

	shader, err := rt.makeShader(driver.VERTEX_SHADER, vertexShaderSrc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVertexShader, err)
	}
	rt.vertexShader = shader

	rt.framebuffer = rt.gl.GenFramebuffer()

	rt.vertexBuffer = rt.gl.GenBuffer()
	rt.gl.BindBuffer(driver.ARRAY_BUFFER, rt.vertexBuffer)
	rt.gl.BufferData(driver.ARRAY_BUFFER, f32Bytes(squareVertices[:]), driver.STATIC_DRAW)

	rt.elementBuffer = rt.gl.GenBuffer()
	rt.gl.BindBuffer(driver.ELEMENT_ARRAY_BUFFER, rt.elementBuffer)
	rt.gl.BufferData(driver.ELEMENT_ARRAY_BUFFER, u32Bytes(squareIndices[:]), driver.STATIC_DRAW)

	rt.kernels = make(map[string]*Kernel)
	rt.kernelOrder = nil
	rt.textures = make(map[driver.Texture]*textureRecord)

	rt.initialized = true
	rt.log.Info("glrun: runtime initialized")
	return nil
}

// Release reclaims all runtime state: the shared GL objects and every
// kernel. The GL context itself belongs to the host application and is
// left untouched. All textures must have been freed with DevFree first;
// leaked textures are a caller error and panic.
func (rt *Runtime) Release() error {
	if !rt.initialized {
		return ErrNotInitialized
	}

	rt.gl.DeleteShader(rt.vertexShader)
	rt.gl.DeleteFramebuffer(rt.framebuffer)

	for _, name := range rt.kernelOrder {
		rt.deleteKernel(rt.kernels[name])
	}
	rt.kernels = nil
	rt.kernelOrder = nil

	if len(rt.textures) != 0 {
		panic(fmt.Sprintf("glrun: %d textures still allocated at Release", len(rt.textures)))
	}

	rt.gl.DeleteBuffer(rt.vertexBuffer)
	rt.gl.DeleteBuffer(rt.elementBuffer)

	rt.vertexShader = 0
	rt.framebuffer = 0
	rt.vertexBuffer = 0
	rt.elementBuffer = 0
	rt.initialized = false
	return nil
}

// DevSync waits for all issued GL commands to complete.
func (rt *Runtime) DevSync() error {
	if !rt.initialized {
		return ErrNotInitialized
	}
	rt.gl.Finish()
	return nil
}

// makeShader compiles a shader of the given type and returns its handle.
// On compile failure the shader object is deleted and the driver's info
// log is returned in the error.
func (rt *Runtime) makeShader(typ driver.Enum, source string) (driver.Shader, error) {
	shader := rt.gl.CreateShader(typ)
	rt.gl.ShaderSource(shader, source)
	rt.gl.CompileShader(shader)
	if rt.gl.GetShaderi(shader, driver.COMPILE_STATUS) == 0 {
		infoLog := rt.gl.GetShaderInfoLog(shader)
		rt.gl.DeleteShader(shader)
		return 0, fmt.Errorf("shader compile failed: %s", infoLog)
	}
	return shader, nil
}

// checkGLError logs any pending GL error at debug level.
func (rt *Runtime) checkGLError(op string) {
	if err := rt.gl.GetError(); err != driver.NO_ERROR {
		rt.log.Debug("glrun: GL error", "op", op, "error", fmt.Sprintf("%#x", uint32(err)))
	}
}

func f32Bytes(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out
}

func u32Bytes(v []uint32) []byte {
	out := make([]byte, 4*len(v))
	for i, u := range v {
		binary.LittleEndian.PutUint32(out[4*i:], u)
	}
	return out
}
