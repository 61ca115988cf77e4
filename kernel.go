package glrun

import (
	"fmt"
	"strings"

	"github.com/gogpu/glrun/driver"
)

// Header directives of the kernel source-blob format. The compiler emits
// concatenated kernels, each introduced by a KERNEL line followed by IN and
// OUT argument declarations; the header ends at the first line that matches
// none of the prefixes.
const (
	kernelMarker = "/// KERNEL "
	inputMarker  = "/// IN "
	outputMarker = "/// OUT "
)

// ArgKind classifies a kernel argument.
type ArgKind int

const (
	// KindFloat is a float scalar bound as a uniform.
	KindFloat ArgKind = iota

	// KindInt is an integer scalar bound as a uniform.
	KindInt

	// KindBuffer is an image buffer bound as a sampler (input) or
	// framebuffer attachment (output).
	KindBuffer
)

func (k ArgKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBuffer:
		return "buffer"
	}
	return fmt.Sprintf("ArgKind(%d)", int(k))
}

// Arg is one declared kernel argument. The declaration order in the kernel
// header is the calling convention: DevRun receives actuals in the same
// order.
type Arg struct {
	Name     string
	Kind     ArgKind
	IsOutput bool
}

// Kernel is one compiled GLSL fragment shader addressable by name.
// Program is non-zero only if both the shared vertex shader and the
// fragment shader compiled and the link succeeded.
type Kernel struct {
	Source string
	Name   string
	Args   []Arg

	shader  driver.Shader
	program driver.Program
}

// parseArgument parses a declaration of the form "(float|int|buffer) name".
func parseArgument(decl string) (Arg, error) {
	var kind ArgKind
	var name string
	switch {
	case strings.HasPrefix(decl, "float "):
		kind, name = KindFloat, decl[len("float "):]
	case strings.HasPrefix(decl, "int "):
		kind, name = KindInt, decl[len("int "):]
	case strings.HasPrefix(decl, "buffer "):
		kind, name = KindBuffer, decl[len("buffer "):]
	default:
		return Arg{}, fmt.Errorf("%w: argument type not supported in %q", ErrBadKernelSource, decl)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Arg{}, fmt.Errorf("%w: argument name missing in %q", ErrBadKernelSource, decl)
	}
	return Arg{Name: name, Kind: kind}, nil
}

// parseKernel parses the header block of a single kernel and keeps the
// full text (header included) as the fragment shader source.
func parseKernel(src string) (*Kernel, error) {
	kernel := &Kernel{Source: src}

	rest := src
	for len(rest) > 0 {
		line, tail, _ := strings.Cut(rest, "\n")
		switch {
		case strings.HasPrefix(line, kernelMarker):
			kernel.Name = strings.TrimSpace(line[len(kernelMarker):])
		case strings.HasPrefix(line, inputMarker):
			arg, err := parseArgument(strings.TrimSpace(line[len(inputMarker):]))
			if err != nil {
				return nil, err
			}
			kernel.Args = append(kernel.Args, arg)
		case strings.HasPrefix(line, outputMarker):
			arg, err := parseArgument(strings.TrimSpace(line[len(outputMarker):]))
			if err != nil {
				return nil, err
			}
			arg.IsOutput = true
			kernel.Args = append(kernel.Args, arg)
		default:
			// Header ends at the first unrecognized line.
			return kernel, checkKernelName(kernel)
		}
		rest = tail
	}
	return kernel, checkKernelName(kernel)
}

func checkKernelName(k *Kernel) error {
	if k.Name == "" {
		return fmt.Errorf("%w: kernel name not found", ErrBadKernelSource)
	}
	return nil
}

// InitKernels registers every kernel in the concatenated source blob:
// it splits the blob on the KERNEL marker, parses each header, compiles
// the body as a fragment shader and links it against the shared vertex
// shader.
//
// Compile or link failure is recoverable: the failure and the driver's
// info log are logged, and the kernel is kept with a zero program so a
// later DevRun fails cleanly by name. A duplicate kernel name is rejected
// with a warning; the first registration wins.
func (rt *Runtime) InitKernels(src string) error {
	if !rt.initialized {
		return ErrNotInitialized
	}

	// Use the KERNEL marker to split src into one block per kernel.
	start := strings.Index(src, kernelMarker)
	for start >= 0 && start < len(src) {
		end := strings.Index(src[start+len(kernelMarker):], kernelMarker)
		var block string
		if end < 0 {
			block = src[start:]
			start = -1
		} else {
			end += start + len(kernelMarker)
			block = src[start:end]
			start = end
		}

		kernel, err := parseKernel(block)
		if err != nil {
			return err
		}
		rt.buildKernel(kernel)

		if _, exists := rt.kernels[kernel.Name]; exists {
			rt.log.Warn("glrun: duplicate kernel name", "kernel", kernel.Name)
			rt.deleteKernel(kernel)
			continue
		}
		rt.kernels[kernel.Name] = kernel
		rt.kernelOrder = append(rt.kernelOrder, kernel.Name)
		rt.log.Info("glrun: kernel registered", "kernel", kernel.Name, "args", len(kernel.Args))
	}
	return nil
}

// buildKernel compiles the kernel's fragment shader and links the program.
// Failures leave a zero program behind.
func (rt *Runtime) buildKernel(k *Kernel) {
	shader, err := rt.makeShader(driver.FRAGMENT_SHADER, k.Source)
	if err != nil {
		rt.log.Warn("glrun: could not compile kernel", "kernel", k.Name, "error", err)
	}
	k.shader = shader

	program := rt.gl.CreateProgram()
	rt.gl.AttachShader(program, rt.vertexShader)
	rt.gl.AttachShader(program, k.shader)
	rt.gl.LinkProgram(program)
	if rt.gl.GetProgrami(program, driver.LINK_STATUS) == 0 {
		rt.log.Warn("glrun: could not link program",
			"kernel", k.Name, "log", rt.gl.GetProgramInfoLog(program))
		rt.gl.DeleteProgram(program)
		program = 0
	}
	k.program = program
}

// findKernel looks up a kernel by entry name.
func (rt *Runtime) findKernel(name string) *Kernel {
	return rt.kernels[name]
}

// deleteKernel releases the kernel's GL shader and program.
func (rt *Runtime) deleteKernel(k *Kernel) {
	rt.gl.DeleteProgram(k.program)
	rt.gl.DeleteShader(k.shader)
	k.program = 0
	k.shader = 0
}
