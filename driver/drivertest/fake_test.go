package drivertest

import (
	"bytes"
	"testing"

	"github.com/gogpu/glrun/driver"
)

func TestTextureStorageRoundTrip(t *testing.T) {
	f := New()
	tex := f.GenTexture()
	f.BindTexture(driver.TEXTURE_2D, tex)
	f.TexImage2D(driver.TEXTURE_2D, 0, driver.RGB, 4, 2, driver.RGB, driver.UNSIGNED_BYTE, nil)

	data := make([]byte, 4*2*3)
	for i := range data {
		data[i] = byte(i)
	}
	f.TexSubImage2D(driver.TEXTURE_2D, 0, 0, 0, 4, 2, driver.RGB, driver.UNSIGNED_BYTE, data)

	got := make([]byte, len(data))
	f.GetTexImage(driver.TEXTURE_2D, 0, driver.RGB, driver.UNSIGNED_BYTE, got)
	if !bytes.Equal(got, data) {
		t.Error("readback does not match upload")
	}
}

func TestTexSubImageRegion(t *testing.T) {
	f := New()
	tex := f.GenTexture()
	f.BindTexture(driver.TEXTURE_2D, tex)
	f.TexImage2D(driver.TEXTURE_2D, 0, driver.LUMINANCE, 4, 4, driver.LUMINANCE, driver.UNSIGNED_BYTE, nil)

	// Write a 2x2 block at (1, 1).
	f.TexSubImage2D(driver.TEXTURE_2D, 0, 1, 1, 2, 2, driver.LUMINANCE, driver.UNSIGNED_BYTE,
		[]byte{1, 2, 3, 4})

	st := f.Textures[tex]
	want := []byte{
		0, 0, 0, 0,
		0, 1, 2, 0,
		0, 3, 4, 0,
		0, 0, 0, 0,
	}
	if !bytes.Equal(st.Data, want) {
		t.Errorf("storage = %v, want %v", st.Data, want)
	}
}

func TestMismatchedUploadFormatPanics(t *testing.T) {
	f := New()
	tex := f.GenTexture()
	f.BindTexture(driver.TEXTURE_2D, tex)
	f.TexImage2D(driver.TEXTURE_2D, 0, driver.RGB, 2, 2, driver.RGB, driver.UNSIGNED_BYTE, nil)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on format mismatch")
		}
	}()
	f.TexSubImage2D(driver.TEXTURE_2D, 0, 0, 0, 2, 2, driver.RGBA, driver.FLOAT, make([]byte, 64))
}

func TestShaderCompileMarker(t *testing.T) {
	f := New()
	ok := f.CreateShader(driver.FRAGMENT_SHADER)
	f.ShaderSource(ok, "void main() {}")
	f.CompileShader(ok)
	if f.GetShaderi(ok, driver.COMPILE_STATUS) != 1 {
		t.Error("plain shader must compile")
	}

	bad := f.CreateShader(driver.FRAGMENT_SHADER)
	f.ShaderSource(bad, "#error broken")
	f.CompileShader(bad)
	if f.GetShaderi(bad, driver.COMPILE_STATUS) != 0 {
		t.Error("marker shader must fail to compile")
	}
	if f.GetShaderInfoLog(bad) == "" {
		t.Error("failed compile must produce an info log")
	}
}

func TestLinkPropagatesShaderFailure(t *testing.T) {
	f := New()
	bad := f.CreateShader(driver.FRAGMENT_SHADER)
	f.ShaderSource(bad, "#error broken")
	f.CompileShader(bad)

	p := f.CreateProgram()
	f.AttachShader(p, bad)
	f.LinkProgram(p)
	if f.GetProgrami(p, driver.LINK_STATUS) != 0 {
		t.Error("link must fail with a broken shader attached")
	}
}

func TestUniformRecording(t *testing.T) {
	f := New()
	p := f.CreateProgram()
	f.UseProgram(p)

	loc := f.GetUniformLocation(p, "gain")
	f.Uniform1f(loc, 2.5)
	if f.UniformFloats["gain"] != 2.5 {
		t.Errorf("UniformFloats[gain] = %v, want 2.5", f.UniformFloats["gain"])
	}

	f.MissingUniforms["gone"] = true
	if f.GetUniformLocation(p, "gone").Valid() {
		t.Error("missing uniform must report an invalid location")
	}
}

func TestNewTexturePreallocates(t *testing.T) {
	f := New()
	tex := f.NewTexture(3, 2, driver.RGBA, driver.FLOAT)
	st := f.Textures[tex]
	if st == nil || len(st.Data) != 3*2*4*4 {
		t.Fatalf("NewTexture storage = %v", st)
	}
}
