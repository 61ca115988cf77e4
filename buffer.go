package glrun

import (
	"fmt"

	"github.com/gogpu/glrun/driver"
)

// Buffer is the compiler-level image descriptor the runtime operates on.
// It describes up to four dimensions; by convention dimension 0 is x,
// dimension 1 is y and dimension 2 indexes color channels.
//
// The Dev slot carries the GL texture handle in its low 32 bits once the
// buffer has been through DevMalloc. HostDirty and DevDirty track which
// side holds the authoritative pixels; at most one is expected to be set
// at a time.
type Buffer struct {
	Extent   [4]int32
	Min      [4]int32
	Stride   [4]int32
	ElemSize int32

	Host []byte
	Dev  uint64

	HostDirty bool
	DevDirty  bool
}

// NewInterleavedBuffer returns a buffer with the tightly packed interleaved
// layout the transfer path requires: channel stride 1 and x-stride equal to
// the channel count. Host storage is allocated to match.
func NewInterleavedBuffer(width, height, channels, elemSize int32) *Buffer {
	return &Buffer{
		Extent:   [4]int32{width, height, channels, 0},
		Stride:   [4]int32{channels, width * channels, 1, 0},
		ElemSize: elemSize,
		Host:     make([]byte, width*height*channels*elemSize),
	}
}

// glCompatible reports whether the buffer layout is tightly packed
// interleaved, the only layout the texture transfer path supports.
func (b *Buffer) glCompatible() bool {
	return b.Stride[2] == 1 && b.Stride[0] == b.Extent[2]
}

// hostOffset returns the byte offset of element (x, y, c) relative to the
// buffer origin.
func (b *Buffer) hostOffset(x, y, c int32) int32 {
	return ((x-b.Min[0])*b.Stride[0] + (y-b.Min[1])*b.Stride[1] + (c-b.Min[2])*b.Stride[2]) * b.ElemSize
}

// At returns the element bytes at coordinate (x, y, c).
func (b *Buffer) At(x, y, c int32) []byte {
	off := b.hostOffset(x, y, c)
	return b.Host[off : off+b.ElemSize]
}

// SetAt stores the element bytes at coordinate (x, y, c).
func (b *Buffer) SetAt(x, y, c int32, elem []byte) {
	off := b.hostOffset(x, y, c)
	copy(b.Host[off:off+b.ElemSize], elem)
}

// textureID extracts the GL texture handle from the device slot.
// A handle that does not fit the low 32 bits is a caller error.
func textureID(b *Buffer) driver.Texture {
	if b.Dev>>32 != 0 {
		panic(fmt.Sprintf("glrun: device handle %#x does not fit a GL texture id", b.Dev))
	}
	return driver.Texture(b.Dev)
}

func setTextureID(b *Buffer, t driver.Texture) {
	b.Dev = uint64(t)
}

// clampedSize returns the texture width and height for the buffer,
// clamped to the 1x1 minimum.
func (b *Buffer) clampedSize() (w, h int32) {
	w, h = b.Extent[0], b.Extent[1]
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
