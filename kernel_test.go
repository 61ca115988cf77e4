package glrun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoKernelSrc = `/// KERNEL brighten
/// IN buffer input
/// IN float gain
/// OUT buffer output
uniform sampler2D input;
uniform float gain;
varying vec2 pixcoord;
void main() { gl_FragColor = gain * texture2D(input, pixcoord); }
/// KERNEL threshold
/// IN buffer input
/// IN int cutoff
/// OUT buffer output
void main() {}
`

func TestInitKernelsRegisters(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.InitKernels(twoKernelSrc))

	for _, name := range []string{"brighten", "threshold"} {
		assert.NotNil(t, rt.findKernel(name), "kernel %q not registered", name)
	}
	assert.Nil(t, rt.findKernel("absent"))
}

func TestInitKernelsPreservesArgOrder(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.InitKernels(twoKernelSrc))

	k := rt.findKernel("brighten")
	require.NotNil(t, k)
	want := []Arg{
		{Name: "input", Kind: KindBuffer},
		{Name: "gain", Kind: KindFloat},
		{Name: "output", Kind: KindBuffer, IsOutput: true},
	}
	assert.Equal(t, want, k.Args)
}

func TestInitKernelsKeepsBody(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.InitKernels(twoKernelSrc))

	k := rt.findKernel("brighten")
	require.NotNil(t, k)
	assert.Contains(t, k.Source, "gl_FragColor")
	assert.NotContains(t, k.Source, "threshold", "kernel source must end at the next marker")
}

func TestInitKernelsLinksPrograms(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.InitKernels(twoKernelSrc))
	assert.NotZero(t, rt.findKernel("brighten").program)
	assert.NotZero(t, rt.findKernel("threshold").program)
}

func TestInitKernelsDuplicateName(t *testing.T) {
	rt, _ := newTestRuntime(t)
	src := "/// KERNEL k\n/// IN float first\nvoid main() {}\n" +
		"/// KERNEL k\n/// IN float second\nvoid main() {}\n"
	require.NoError(t, rt.InitKernels(src))

	k := rt.findKernel("k")
	require.NotNil(t, k)
	require.Len(t, k.Args, 1)
	assert.Equal(t, "first", k.Args[0].Name, "first registration must win")
}

func TestInitKernelsCompileFailure(t *testing.T) {
	rt, _ := newTestRuntime(t)
	src := "/// KERNEL broken\n/// OUT buffer output\n#error deliberate\n"
	require.NoError(t, rt.InitKernels(src))

	k := rt.findKernel("broken")
	require.NotNil(t, k, "failed kernels stay registered so dispatch fails by name")
	assert.Zero(t, k.program)

	err := rt.DevRun("broken", 1, 1, 1, 1, 1, 1, 0, []Value{Tex(&Buffer{Dev: 1})})
	assert.ErrorIs(t, err, ErrKernelNotBuilt)
}

func TestInitKernelsIgnoresPreamble(t *testing.T) {
	rt, _ := newTestRuntime(t)
	src := "// compiler banner\n#version 120\n/// KERNEL k\nvoid main() {}\n"
	require.NoError(t, rt.InitKernels(src))
	assert.NotNil(t, rt.findKernel("k"))
}

func TestInitKernelsEmptySource(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.InitKernels(""))
	assert.Empty(t, rt.kernels)
}

func TestParseKernelHeaderEndsAtBody(t *testing.T) {
	k, err := parseKernel("/// KERNEL k\n/// IN int a\nuniform int a;\n/// IN int late\n")
	require.NoError(t, err)
	require.Len(t, k.Args, 1, "directives after the first body line are GLSL, not header")
	assert.Equal(t, "a", k.Args[0].Name)
}

func TestParseKernelErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unsupported type", "/// KERNEL k\n/// IN double x\nvoid main() {}\n"},
		{"missing arg name", "/// KERNEL k\n/// IN float \nvoid main() {}\n"},
		{"missing kernel name", "/// IN float x\nvoid main() {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseKernel(tt.src)
			assert.ErrorIs(t, err, ErrBadKernelSource)
		})
	}
}

func TestInitKernelsParseErrorPropagates(t *testing.T) {
	rt, _ := newTestRuntime(t)
	err := rt.InitKernels("/// KERNEL k\n/// IN double x\nvoid main() {}\n")
	assert.True(t, errors.Is(err, ErrBadKernelSource), "error = %v", err)
}

func TestArgKindString(t *testing.T) {
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "buffer", KindBuffer.String())
}
