package gldriver

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.2-compatibility/gl"

	"github.com/gogpu/glrun/driver"
)

func init() {
	driver.Register(driver.DriverGL, func(getProcAddress driver.ProcAddressFunc) (driver.GL, error) {
		return New(getProcAddress)
	})
}

// Driver is a driver.GL backed by go-gl function pointers.
type Driver struct{}

// New resolves all required GL entry points through getProcAddress.
// A nil hook resolves through the platform default loader. Resolution
// failure names the missing symbol and leaves no global state behind.
func New(getProcAddress driver.ProcAddressFunc) (*Driver, error) {
	var err error
	if getProcAddress != nil {
		err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
			return getProcAddress(name)
		})
	} else {
		err = gl.Init()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", driver.ErrSymbolMissing, err)
	}
	return &Driver{}, nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (*Driver) GenTexture() driver.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return driver.Texture(t)
}

func (*Driver) DeleteTexture(t driver.Texture) {
	u := uint32(t)
	gl.DeleteTextures(1, &u)
}

func (*Driver) BindTexture(target driver.Enum, t driver.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

func (*Driver) ActiveTexture(unit driver.Enum) {
	gl.ActiveTexture(uint32(unit))
}

func (*Driver) TexParameteri(target, pname driver.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (*Driver) TexImage2D(target driver.Enum, level int32, internalFormat driver.Enum, width, height int32, format, typ driver.Enum, data []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(typ), ptr(data))
}

func (*Driver) TexSubImage2D(target driver.Enum, level, x, y, width, height int32, format, typ driver.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), level, x, y, width, height, uint32(format), uint32(typ), ptr(data))
}

func (*Driver) GetTexImage(target driver.Enum, level int32, format, typ driver.Enum, data []byte) {
	gl.GetTexImage(uint32(target), level, uint32(format), uint32(typ), ptr(data))
}

func (*Driver) CreateShader(typ driver.Enum) driver.Shader {
	return driver.Shader(gl.CreateShader(uint32(typ)))
}

func (*Driver) ShaderSource(s driver.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

func (*Driver) CompileShader(s driver.Shader) {
	gl.CompileShader(uint32(s))
}

func (*Driver) GetShaderi(s driver.Shader, pname driver.Enum) int32 {
	var v int32
	gl.GetShaderiv(uint32(s), uint32(pname), &v)
	return v
}

func (*Driver) GetShaderInfoLog(s driver.Shader) string {
	var length int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(uint32(s), length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Driver) DeleteShader(s driver.Shader) {
	gl.DeleteShader(uint32(s))
}

func (*Driver) CreateProgram() driver.Program {
	return driver.Program(gl.CreateProgram())
}

func (*Driver) AttachShader(p driver.Program, s driver.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (*Driver) LinkProgram(p driver.Program) {
	gl.LinkProgram(uint32(p))
}

func (*Driver) GetProgrami(p driver.Program, pname driver.Enum) int32 {
	var v int32
	gl.GetProgramiv(uint32(p), uint32(pname), &v)
	return v
}

func (*Driver) GetProgramInfoLog(p driver.Program) string {
	var length int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(uint32(p), length, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Driver) UseProgram(p driver.Program) {
	gl.UseProgram(uint32(p))
}

func (*Driver) DeleteProgram(p driver.Program) {
	gl.DeleteProgram(uint32(p))
}

func (*Driver) GetUniformLocation(p driver.Program, name string) driver.Uniform {
	return driver.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (*Driver) GetAttribLocation(p driver.Program, name string) driver.Attrib {
	return driver.Attrib(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (*Driver) Uniform1i(loc driver.Uniform, v int32) {
	gl.Uniform1i(int32(loc), v)
}

func (*Driver) Uniform2i(loc driver.Uniform, v0, v1 int32) {
	gl.Uniform2i(int32(loc), v0, v1)
}

func (*Driver) Uniform1f(loc driver.Uniform, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (*Driver) GenBuffer() driver.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return driver.Buffer(b)
}

func (*Driver) DeleteBuffer(b driver.Buffer) {
	u := uint32(b)
	gl.DeleteBuffers(1, &u)
}

func (*Driver) BindBuffer(target driver.Enum, b driver.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

func (*Driver) BufferData(target driver.Enum, data []byte, usage driver.Enum) {
	gl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (*Driver) VertexAttribPointer(a driver.Attrib, size int32, typ driver.Enum, normalized bool, stride, offset int32) {
	gl.VertexAttribPointerWithOffset(uint32(a), size, uint32(typ), normalized, stride, uintptr(offset))
}

func (*Driver) EnableVertexAttribArray(a driver.Attrib) {
	gl.EnableVertexAttribArray(uint32(a))
}

func (*Driver) DisableVertexAttribArray(a driver.Attrib) {
	gl.DisableVertexAttribArray(uint32(a))
}

func (*Driver) DrawElements(mode driver.Enum, count int32, typ driver.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), count, uint32(typ), uintptr(offset))
}

func (*Driver) GenFramebuffer() driver.Framebuffer {
	var f uint32
	gl.GenFramebuffers(1, &f)
	return driver.Framebuffer(f)
}

func (*Driver) DeleteFramebuffer(f driver.Framebuffer) {
	u := uint32(f)
	gl.DeleteFramebuffers(1, &u)
}

func (*Driver) BindFramebuffer(target driver.Enum, f driver.Framebuffer) {
	gl.BindFramebuffer(uint32(target), uint32(f))
}

func (*Driver) FramebufferTexture2D(target, attachment, textarget driver.Enum, t driver.Texture, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(textarget), uint32(t), level)
}

func (*Driver) CheckFramebufferStatus(target driver.Enum) driver.Enum {
	return driver.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (*Driver) DrawBuffers(bufs []driver.Enum) {
	if len(bufs) == 0 {
		return
	}
	raw := make([]uint32, len(bufs))
	for i, b := range bufs {
		raw[i] = uint32(b)
	}
	gl.DrawBuffers(int32(len(raw)), &raw[0])
}

func (*Driver) MatrixMode(mode driver.Enum) {
	gl.MatrixMode(uint32(mode))
}

func (*Driver) LoadIdentity() {
	gl.LoadIdentity()
}

func (*Driver) Ortho(left, right, bottom, top, near, far float64) {
	gl.Ortho(left, right, bottom, top, near, far)
}

func (*Driver) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (*Driver) Disable(cap driver.Enum) {
	gl.Disable(uint32(cap))
}

func (*Driver) GetError() driver.Enum {
	return driver.Enum(gl.GetError())
}

func (*Driver) Finish() {
	gl.Finish()
}
