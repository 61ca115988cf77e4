package drivertest

import (
	"fmt"
	"strings"

	"github.com/gogpu/glrun/driver"
)

// maxUnits is the number of texture units the fake models.
const maxUnits = 16

// TextureStorage is the backing store of one fake texture.
type TextureStorage struct {
	Width  int32
	Height int32
	Format driver.Enum
	Type   driver.Enum
	Data   []byte
}

type shaderObj struct {
	source  string
	ok      bool
	infoLog string
}

type programObj struct {
	shaders  []driver.Shader
	ok       bool
	infoLog  string
	uniforms map[string]driver.Uniform
	attribs  map[string]driver.Attrib
	nextLoc  int32
}

// Fake is an in-memory driver.GL implementation.
//
// The zero value is not usable; construct with New. Fake is not safe for
// concurrent use, matching the single-threaded contract of driver.GL.
type Fake struct {
	// Calls records method invocations in order, formatted as
	// "Name(args)". Tests assert on ordering and cleanup with it. The
	// status and location queries (GetShaderi, GetShaderInfoLog,
	// GetProgrami, GetProgramInfoLog, GetUniformLocation,
	// GetAttribLocation, CheckFramebufferStatus, GetError) are not
	// recorded.
	Calls []string

	// FailLink makes every subsequent LinkProgram fail.
	FailLink bool

	// MissingUniforms lists uniform names GetUniformLocation reports as
	// optimized away.
	MissingUniforms map[string]bool

	// FramebufferStatus is returned by CheckFramebufferStatus.
	// Defaults to FRAMEBUFFER_COMPLETE.
	FramebufferStatus driver.Enum

	// OnDraw, if set, runs inside DrawElements. Tests use it to emulate
	// the fragment shader writing the framebuffer attachment.
	OnDraw func(f *Fake)

	Textures map[driver.Texture]*TextureStorage
	Buffers  map[driver.Buffer][]byte

	// Uniform values set on the program in use, keyed by name.
	UniformInts   map[string][]int32
	UniformFloats map[string]float32

	// Binding state.
	ActiveUnit  int
	BoundTex    [maxUnits]driver.Texture
	BoundFB     driver.Framebuffer
	BoundArray  driver.Buffer
	BoundElems  driver.Buffer
	UsedProgram driver.Program
	Attachment0 driver.Texture
	ViewportRec [4]int32
	DrawCount   int

	shaders  map[driver.Shader]*shaderObj
	programs map[driver.Program]*programObj
	nextID   uint32
}

var _ driver.GL = (*Fake)(nil)

// New returns an empty fake driver.
func New() *Fake {
	return &Fake{
		MissingUniforms:   make(map[string]bool),
		FramebufferStatus: driver.FRAMEBUFFER_COMPLETE,
		Textures:          make(map[driver.Texture]*TextureStorage),
		Buffers:           make(map[driver.Buffer][]byte),
		UniformInts:       make(map[string][]int32),
		UniformFloats:     make(map[string]float32),
		shaders:           make(map[driver.Shader]*shaderObj),
		programs:          make(map[driver.Program]*programObj),
	}
}

// Register installs a factory for the fake under driver.DriverFake.
func Register() {
	driver.Register(driver.DriverFake, func(driver.ProcAddressFunc) (driver.GL, error) {
		return New(), nil
	})
}

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) id() uint32 {
	f.nextID++
	return f.nextID
}

// NewTexture pre-creates a texture with allocated storage, as a host
// application owning its own GL objects would. It returns the handle.
func (f *Fake) NewTexture(width, height int32, format, typ driver.Enum) driver.Texture {
	t := driver.Texture(f.id())
	f.Textures[t] = &TextureStorage{
		Width:  width,
		Height: height,
		Format: format,
		Type:   typ,
		Data:   make([]byte, texSize(width, height, format, typ)),
	}
	return t
}

func channels(format driver.Enum) int32 {
	switch format {
	case driver.LUMINANCE:
		return 1
	case driver.LUMINANCE_ALPHA:
		return 2
	case driver.RGB:
		return 3
	case driver.RGBA:
		return 4
	}
	return 0
}

func typeSize(typ driver.Enum) int32 {
	switch typ {
	case driver.UNSIGNED_BYTE:
		return 1
	case driver.UNSIGNED_SHORT:
		return 2
	case driver.FLOAT:
		return 4
	}
	return 0
}

func texSize(width, height int32, format, typ driver.Enum) int32 {
	return width * height * channels(format) * typeSize(typ)
}

// Textures.

func (f *Fake) GenTexture() driver.Texture {
	t := driver.Texture(f.id())
	f.Textures[t] = &TextureStorage{}
	f.record("GenTexture() = %d", t)
	return t
}

func (f *Fake) DeleteTexture(t driver.Texture) {
	delete(f.Textures, t)
	f.record("DeleteTexture(%d)", t)
}

func (f *Fake) BindTexture(target driver.Enum, t driver.Texture) {
	f.BoundTex[f.ActiveUnit] = t
	f.record("BindTexture(%#x, %d)", target, t)
}

func (f *Fake) ActiveTexture(unit driver.Enum) {
	f.ActiveUnit = int(unit - driver.TEXTURE0)
	f.record("ActiveTexture(%d)", f.ActiveUnit)
}

func (f *Fake) TexParameteri(target, pname driver.Enum, param int32) {
	f.record("TexParameteri(%#x, %#x, %#x)", target, pname, param)
}

func (f *Fake) boundStorage() *TextureStorage {
	return f.Textures[f.BoundTex[f.ActiveUnit]]
}

func (f *Fake) TexImage2D(target driver.Enum, level int32, internalFormat driver.Enum, width, height int32, format, typ driver.Enum, data []byte) {
	st := f.boundStorage()
	if st == nil {
		panic("drivertest: TexImage2D with no texture bound")
	}
	st.Width = width
	st.Height = height
	st.Format = format
	st.Type = typ
	st.Data = make([]byte, texSize(width, height, format, typ))
	copy(st.Data, data)
	f.record("TexImage2D(%dx%d, fmt=%#x, type=%#x)", width, height, format, typ)
}

func (f *Fake) TexSubImage2D(target driver.Enum, level, x, y, width, height int32, format, typ driver.Enum, data []byte) {
	st := f.boundStorage()
	if st == nil {
		panic("drivertest: TexSubImage2D with no texture bound")
	}
	if format != st.Format || typ != st.Type {
		panic(fmt.Sprintf("drivertest: upload format %#x/%#x does not match storage %#x/%#x",
			format, typ, st.Format, st.Type))
	}
	pixel := channels(format) * typeSize(typ)
	rowSrc := width * pixel
	rowDst := st.Width * pixel
	for j := int32(0); j < height; j++ {
		src := data[j*rowSrc : (j+1)*rowSrc]
		off := (y+j)*rowDst + x*pixel
		copy(st.Data[off:off+rowSrc], src)
	}
	f.record("TexSubImage2D(%d,%d %dx%d, fmt=%#x, type=%#x)", x, y, width, height, format, typ)
}

func (f *Fake) GetTexImage(target driver.Enum, level int32, format, typ driver.Enum, data []byte) {
	st := f.boundStorage()
	if st == nil {
		panic("drivertest: GetTexImage with no texture bound")
	}
	if format != st.Format || typ != st.Type {
		panic(fmt.Sprintf("drivertest: readback format %#x/%#x does not match storage %#x/%#x",
			format, typ, st.Format, st.Type))
	}
	copy(data, st.Data)
	f.record("GetTexImage(fmt=%#x, type=%#x)", format, typ)
}

// Shaders.

func (f *Fake) CreateShader(typ driver.Enum) driver.Shader {
	s := driver.Shader(f.id())
	f.shaders[s] = &shaderObj{}
	f.record("CreateShader(%#x) = %d", typ, s)
	return s
}

func (f *Fake) ShaderSource(s driver.Shader, src string) {
	f.shaders[s].source = src
	f.record("ShaderSource(%d)", s)
}

// compileFailMarker makes a fake shader fail to compile.
const compileFailMarker = "#error"

func (f *Fake) CompileShader(s driver.Shader) {
	sh := f.shaders[s]
	sh.ok = !strings.Contains(sh.source, compileFailMarker)
	if !sh.ok {
		sh.infoLog = "drivertest: compile failed"
	}
	f.record("CompileShader(%d)", s)
}

func (f *Fake) GetShaderi(s driver.Shader, pname driver.Enum) int32 {
	if pname == driver.COMPILE_STATUS && f.shaders[s].ok {
		return 1
	}
	return 0
}

func (f *Fake) GetShaderInfoLog(s driver.Shader) string {
	return f.shaders[s].infoLog
}

func (f *Fake) DeleteShader(s driver.Shader) {
	delete(f.shaders, s)
	f.record("DeleteShader(%d)", s)
}

// Programs.

func (f *Fake) CreateProgram() driver.Program {
	p := driver.Program(f.id())
	f.programs[p] = &programObj{
		uniforms: make(map[string]driver.Uniform),
		attribs:  make(map[string]driver.Attrib),
	}
	f.record("CreateProgram() = %d", p)
	return p
}

func (f *Fake) AttachShader(p driver.Program, s driver.Shader) {
	f.programs[p].shaders = append(f.programs[p].shaders, s)
	f.record("AttachShader(%d, %d)", p, s)
}

func (f *Fake) LinkProgram(p driver.Program) {
	prog := f.programs[p]
	prog.ok = !f.FailLink
	for _, s := range prog.shaders {
		if sh := f.shaders[s]; sh == nil || !sh.ok {
			prog.ok = false
		}
	}
	if !prog.ok {
		prog.infoLog = "drivertest: link failed"
	}
	f.record("LinkProgram(%d)", p)
}

func (f *Fake) GetProgrami(p driver.Program, pname driver.Enum) int32 {
	if pname == driver.LINK_STATUS && f.programs[p].ok {
		return 1
	}
	return 0
}

func (f *Fake) GetProgramInfoLog(p driver.Program) string {
	return f.programs[p].infoLog
}

func (f *Fake) UseProgram(p driver.Program) {
	f.UsedProgram = p
	f.record("UseProgram(%d)", p)
}

func (f *Fake) DeleteProgram(p driver.Program) {
	delete(f.programs, p)
	f.record("DeleteProgram(%d)", p)
}

func (f *Fake) GetUniformLocation(p driver.Program, name string) driver.Uniform {
	if f.MissingUniforms[name] {
		return driver.Uniform(-1)
	}
	prog := f.programs[p]
	loc, ok := prog.uniforms[name]
	if !ok {
		loc = driver.Uniform(prog.nextLoc)
		prog.nextLoc++
		prog.uniforms[name] = loc
	}
	return loc
}

func (f *Fake) GetAttribLocation(p driver.Program, name string) driver.Attrib {
	prog := f.programs[p]
	loc, ok := prog.attribs[name]
	if !ok {
		loc = driver.Attrib(len(prog.attribs))
		prog.attribs[name] = loc
	}
	return loc
}

// uniformName resolves a location back to its name within the program in
// use, mirroring how a test reads uniform state.
func (f *Fake) uniformName(loc driver.Uniform) string {
	if prog := f.programs[f.UsedProgram]; prog != nil {
		for name, l := range prog.uniforms {
			if l == loc {
				return name
			}
		}
	}
	return fmt.Sprintf("loc%d", loc)
}

func (f *Fake) Uniform1i(loc driver.Uniform, v int32) {
	f.UniformInts[f.uniformName(loc)] = []int32{v}
	f.record("Uniform1i(%s, %d)", f.uniformName(loc), v)
}

func (f *Fake) Uniform2i(loc driver.Uniform, v0, v1 int32) {
	f.UniformInts[f.uniformName(loc)] = []int32{v0, v1}
	f.record("Uniform2i(%s, %d, %d)", f.uniformName(loc), v0, v1)
}

func (f *Fake) Uniform1f(loc driver.Uniform, v float32) {
	f.UniformFloats[f.uniformName(loc)] = v
	f.record("Uniform1f(%s, %g)", f.uniformName(loc), v)
}

// Buffers and drawing.

func (f *Fake) GenBuffer() driver.Buffer {
	b := driver.Buffer(f.id())
	f.Buffers[b] = nil
	f.record("GenBuffer() = %d", b)
	return b
}

func (f *Fake) DeleteBuffer(b driver.Buffer) {
	delete(f.Buffers, b)
	f.record("DeleteBuffer(%d)", b)
}

func (f *Fake) BindBuffer(target driver.Enum, b driver.Buffer) {
	switch target {
	case driver.ARRAY_BUFFER:
		f.BoundArray = b
	case driver.ELEMENT_ARRAY_BUFFER:
		f.BoundElems = b
	}
	f.record("BindBuffer(%#x, %d)", target, b)
}

func (f *Fake) BufferData(target driver.Enum, data []byte, usage driver.Enum) {
	var b driver.Buffer
	switch target {
	case driver.ARRAY_BUFFER:
		b = f.BoundArray
	case driver.ELEMENT_ARRAY_BUFFER:
		b = f.BoundElems
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.Buffers[b] = buf
	f.record("BufferData(%#x, %d bytes)", target, len(data))
}

func (f *Fake) VertexAttribPointer(a driver.Attrib, size int32, typ driver.Enum, normalized bool, stride, offset int32) {
	f.record("VertexAttribPointer(%d)", a)
}

func (f *Fake) EnableVertexAttribArray(a driver.Attrib) {
	f.record("EnableVertexAttribArray(%d)", a)
}

func (f *Fake) DisableVertexAttribArray(a driver.Attrib) {
	f.record("DisableVertexAttribArray(%d)", a)
}

func (f *Fake) DrawElements(mode driver.Enum, count int32, typ driver.Enum, offset int) {
	f.DrawCount++
	f.record("DrawElements(%#x, %d)", mode, count)
	if f.OnDraw != nil {
		f.OnDraw(f)
	}
}

// Framebuffers.

func (f *Fake) GenFramebuffer() driver.Framebuffer {
	fb := driver.Framebuffer(f.id())
	f.record("GenFramebuffer() = %d", fb)
	return fb
}

func (f *Fake) DeleteFramebuffer(fb driver.Framebuffer) {
	f.record("DeleteFramebuffer(%d)", fb)
}

func (f *Fake) BindFramebuffer(target driver.Enum, fb driver.Framebuffer) {
	f.BoundFB = fb
	f.record("BindFramebuffer(%#x, %d)", target, fb)
}

func (f *Fake) FramebufferTexture2D(target, attachment, textarget driver.Enum, t driver.Texture, level int32) {
	if attachment == driver.COLOR_ATTACHMENT0 {
		f.Attachment0 = t
	}
	f.record("FramebufferTexture2D(%#x, %d)", attachment, t)
}

func (f *Fake) CheckFramebufferStatus(target driver.Enum) driver.Enum {
	return f.FramebufferStatus
}

func (f *Fake) DrawBuffers(bufs []driver.Enum) {
	f.record("DrawBuffers(%d)", len(bufs))
}

// Fixed-function state.

func (f *Fake) MatrixMode(mode driver.Enum) { f.record("MatrixMode(%#x)", mode) }
func (f *Fake) LoadIdentity()               { f.record("LoadIdentity()") }

func (f *Fake) Ortho(left, right, bottom, top, near, far float64) {
	f.record("Ortho(%g, %g, %g, %g, %g, %g)", left, right, bottom, top, near, far)
}

func (f *Fake) Viewport(x, y, width, height int32) {
	f.ViewportRec = [4]int32{x, y, width, height}
	f.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

func (f *Fake) Disable(cap driver.Enum) { f.record("Disable(%#x)", cap) }

// Diagnostics and synchronization.

func (f *Fake) GetError() driver.Enum { return driver.NO_ERROR }
func (f *Fake) Finish()               { f.record("Finish()") }
