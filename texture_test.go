package glrun

import (
	"errors"
	"testing"

	"github.com/gogpu/glrun/driver"
)

func TestDevMallocFormats(t *testing.T) {
	tests := []struct {
		name     string
		channels int32
		elemSize int32
		format   driver.Enum
		typ      driver.Enum
	}{
		{"gray8", 1, 1, driver.LUMINANCE, driver.UNSIGNED_BYTE},
		{"gray16", 1, 2, driver.LUMINANCE, driver.UNSIGNED_SHORT},
		{"grayalpha8", 2, 1, driver.LUMINANCE_ALPHA, driver.UNSIGNED_BYTE},
		{"rgb8", 3, 1, driver.RGB, driver.UNSIGNED_BYTE},
		{"rgb16", 3, 2, driver.RGB, driver.UNSIGNED_SHORT},
		{"rgba8", 4, 1, driver.RGBA, driver.UNSIGNED_BYTE},
		{"rgba16", 4, 2, driver.RGBA, driver.UNSIGNED_SHORT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, fake := newTestRuntime(t)
			buf := NewInterleavedBuffer(8, 6, tt.channels, tt.elemSize)
			if err := rt.DevMalloc(buf); err != nil {
				t.Fatalf("DevMalloc() error = %v", err)
			}
			if buf.Dev == 0 {
				t.Fatal("device slot not populated")
			}
			st := fake.Textures[driver.Texture(buf.Dev)]
			if st == nil {
				t.Fatal("no texture storage allocated")
			}
			if st.Format != tt.format || st.Type != tt.typ {
				t.Errorf("storage format/type = %#x/%#x, want %#x/%#x",
					st.Format, st.Type, tt.format, tt.typ)
			}
			if st.Width != 8 || st.Height != 6 {
				t.Errorf("storage size = %dx%d, want 8x6", st.Width, st.Height)
			}
			if err := rt.DevFree(buf); err != nil {
				t.Fatalf("DevFree() error = %v", err)
			}
		})
	}
}

func TestDevMallocClampsSize(t *testing.T) {
	rt, fake := newTestRuntime(t)
	buf := &Buffer{
		Extent:   [4]int32{0, 0, 1, 0},
		Stride:   [4]int32{1, 1, 1, 0},
		ElemSize: 1,
	}
	if err := rt.DevMalloc(buf); err != nil {
		t.Fatalf("DevMalloc() error = %v", err)
	}
	st := fake.Textures[driver.Texture(buf.Dev)]
	if st.Width != 1 || st.Height != 1 {
		t.Errorf("storage size = %dx%d, want 1x1 minimum", st.Width, st.Height)
	}
	if err := rt.DevFree(buf); err != nil {
		t.Fatalf("DevFree() error = %v", err)
	}
}

func TestDevMallocRejects(t *testing.T) {
	tests := []struct {
		name string
		buf  *Buffer
	}{
		{"five channels", NewInterleavedBuffer(4, 4, 5, 1)},
		{"fourth dimension", &Buffer{
			Extent:   [4]int32{4, 4, 3, 2},
			Stride:   [4]int32{3, 12, 1, 48},
			ElemSize: 1,
		}},
		{"four byte elements", NewInterleavedBuffer(4, 4, 3, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, _ := newTestRuntime(t)
			if err := rt.DevMalloc(tt.buf); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("DevMalloc() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestDevMallocHostTexture(t *testing.T) {
	rt, fake := newTestRuntime(t)
	tex := fake.NewTexture(8, 8, driver.RGBA, driver.FLOAT)
	buf := NewInterleavedBuffer(8, 8, 4, 1)
	buf.Dev = uint64(tex)

	calls := len(fake.Calls)
	if err := rt.DevMalloc(buf); err != nil {
		t.Fatalf("DevMalloc() error = %v", err)
	}
	if len(fake.Calls) != calls {
		t.Error("host-supplied texture must not trigger GL allocation")
	}

	// The texture belongs to the host: DevFree must leave both the GL
	// object and the device slot alone.
	if err := rt.DevFree(buf); err != nil {
		t.Fatalf("DevFree() error = %v", err)
	}
	if buf.Dev == 0 {
		t.Error("DevFree cleared the device slot of a host-owned texture")
	}
	if fake.Textures[tex] == nil {
		t.Error("DevFree deleted a host-owned texture")
	}
}

func TestDevMallocOversizedHandlePanics(t *testing.T) {
	rt, _ := newTestRuntime(t)
	buf := NewInterleavedBuffer(4, 4, 3, 1)
	buf.Dev = 1 << 40
	mustPanic(t, func() { _ = rt.DevMalloc(buf) })
}

func TestDevFreeOwnedTexture(t *testing.T) {
	rt, fake := newTestRuntime(t)
	buf := NewInterleavedBuffer(4, 4, 3, 1)
	if err := rt.DevMalloc(buf); err != nil {
		t.Fatalf("DevMalloc() error = %v", err)
	}
	tex := driver.Texture(buf.Dev)
	if err := rt.DevFree(buf); err != nil {
		t.Fatalf("DevFree() error = %v", err)
	}
	if buf.Dev != 0 {
		t.Error("DevFree must clear the device slot of a runtime-owned texture")
	}
	if fake.Textures[tex] != nil {
		t.Error("DevFree must delete a runtime-owned texture")
	}
}

func TestDevFreeZeroHandle(t *testing.T) {
	rt, fake := newTestRuntime(t)
	calls := len(fake.Calls)
	if err := rt.DevFree(&Buffer{}); err != nil {
		t.Fatalf("DevFree() error = %v", err)
	}
	if len(fake.Calls) != calls {
		t.Error("DevFree of a zero handle must be a no-op")
	}
}

func TestDevFreeMissingRecordPanics(t *testing.T) {
	rt, _ := newTestRuntime(t)
	buf := &Buffer{Dev: 42}
	mustPanic(t, func() { _ = rt.DevFree(buf) })
}

func TestDevMallocRecordsGeometry(t *testing.T) {
	rt, _ := newTestRuntime(t)
	buf := NewInterleavedBuffer(16, 9, 3, 1)
	buf.Min = [4]int32{5, 7, 0, 0}
	if err := rt.DevMalloc(buf); err != nil {
		t.Fatalf("DevMalloc() error = %v", err)
	}
	rec := rt.findTexture(driver.Texture(buf.Dev))
	if rec == nil {
		t.Fatal("no registry record")
	}
	if rec.min != [3]int32{5, 7, 0} {
		t.Errorf("record min = %v, want [5 7 0]", rec.min)
	}
	if rec.extent != [3]int32{16, 9, 3} {
		t.Errorf("record extent = %v, want [16 9 3]", rec.extent)
	}
	if err := rt.DevFree(buf); err != nil {
		t.Fatalf("DevFree() error = %v", err)
	}
}
