package driver

import "unsafe"

// GL object handles. Distinct types keep texture, shader, and buffer names
// from being mixed up at compile time; the zero value is never a live
// object.
type (
	// Enum is a GL enumerant (GLenum).
	Enum uint32

	// Texture is a GL texture object name.
	Texture uint32

	// Shader is a GL shader object name.
	Shader uint32

	// Program is a GL program object name.
	Program uint32

	// Buffer is a GL buffer object name.
	Buffer uint32

	// Framebuffer is a GL framebuffer object name.
	Framebuffer uint32

	// Uniform is a uniform location within a linked program.
	Uniform int32

	// Attrib is a vertex attribute location within a linked program.
	Attrib int32
)

// Valid reports whether the location refers to an active uniform.
// GetUniformLocation returns an invalid location for names the GLSL
// compiler optimized away.
func (u Uniform) Valid() bool { return u >= 0 }

// Valid reports whether the location refers to an active attribute.
func (a Attrib) Valid() bool { return a >= 0 }

// ProcAddressFunc resolves the address of a named GL entry point.
// The host environment that owns the GL context supplies it.
type ProcAddressFunc func(name string) unsafe.Pointer

// GL enumerants used by the runtime. Values are the standard OpenGL ones.
const (
	NO_ERROR Enum = 0

	TEXTURE_2D         Enum = 0x0DE1
	TEXTURE0           Enum = 0x84C0
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	NEAREST            Enum = 0x2600
	CLAMP_TO_EDGE      Enum = 0x812F

	LUMINANCE       Enum = 0x1909
	LUMINANCE_ALPHA Enum = 0x190A
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908

	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406

	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88E4
	TRIANGLE_STRIP       Enum = 0x0005

	FRAMEBUFFER          Enum = 0x8D40
	COLOR_ATTACHMENT0    Enum = 0x8CE0
	FRAMEBUFFER_COMPLETE Enum = 0x8CD5

	CULL_FACE  Enum = 0x0B44
	DEPTH_TEST Enum = 0x0B71

	MODELVIEW  Enum = 0x1700
	PROJECTION Enum = 0x1701
)

// GL is the fixed set of OpenGL entry points the runtime requires.
//
// All methods must be called from the thread that owns the GL context;
// the interface adds no synchronization of its own. Data slices passed to
// TexImage2D and BufferData may be nil to allocate uninitialized storage.
type GL interface {
	// Textures.
	GenTexture() Texture
	DeleteTexture(t Texture)
	BindTexture(target Enum, t Texture)
	ActiveTexture(unit Enum)
	TexParameteri(target, pname Enum, param int32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, data []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, typ Enum, data []byte)
	GetTexImage(target Enum, level int32, format, typ Enum, data []byte)

	// Shaders.
	CreateShader(typ Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int32
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	// Programs.
	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int32
	GetProgramInfoLog(p Program) string
	UseProgram(p Program)
	DeleteProgram(p Program)
	GetUniformLocation(p Program, name string) Uniform
	GetAttribLocation(p Program, name string) Attrib
	Uniform1i(loc Uniform, v int32)
	Uniform2i(loc Uniform, v0, v1 int32)
	Uniform1f(loc Uniform, v float32)

	// Buffers and drawing.
	GenBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	VertexAttribPointer(a Attrib, size int32, typ Enum, normalized bool, stride, offset int32)
	EnableVertexAttribArray(a Attrib)
	DisableVertexAttribArray(a Attrib)
	DrawElements(mode Enum, count int32, typ Enum, offset int)

	// Framebuffers.
	GenFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(target Enum, f Framebuffer)
	FramebufferTexture2D(target, attachment, textarget Enum, t Texture, level int32)
	CheckFramebufferStatus(target Enum) Enum
	DrawBuffers(bufs []Enum)

	// Fixed-function state.
	MatrixMode(mode Enum)
	LoadIdentity()
	Ortho(left, right, bottom, top, near, far float64)
	Viewport(x, y, width, height int32)
	Disable(cap Enum)

	// Diagnostics and synchronization.
	GetError() Enum
	Finish()
}
