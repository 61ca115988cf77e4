package glrun

import (
	"fmt"

	"github.com/gogpu/glrun/driver"
)

// textureRecord is the runtime-side bookkeeping for one GPU texture
// backing a buffer. DevRun is handed only texture handles, so the origin
// and extent of the backing buffer are captured here at allocation time.
type textureRecord struct {
	id     driver.Texture
	min    [3]int32
	extent [3]int32

	// format and typ are the pixel format and element type chosen at
	// allocation. The transfer path routes uploads and readbacks through
	// them so the wire format always matches the texture storage. Both
	// are zero for host-supplied textures of unknown format.
	format driver.Enum
	typ    driver.Enum

	// runtimeAllocated distinguishes textures the runtime created (and
	// therefore owns and deletes) from textures supplied by the host
	// application.
	runtimeAllocated bool
}

// texFormat maps a channel count to the texture pixel format.
func texFormat(channels int32) (driver.Enum, error) {
	switch {
	case channels <= 1:
		return driver.LUMINANCE, nil
	case channels == 2:
		return driver.LUMINANCE_ALPHA, nil
	case channels == 3:
		return driver.RGB, nil
	case channels == 4:
		return driver.RGBA, nil
	}
	return 0, fmt.Errorf("%w: %d color channels", ErrUnsupportedFormat, channels)
}

// texType maps a buffer element size to the texture element type.
func texType(elemSize int32) (driver.Enum, error) {
	switch elemSize {
	case 1:
		return driver.UNSIGNED_BYTE, nil
	case 2:
		return driver.UNSIGNED_SHORT, nil
	}
	return 0, fmt.Errorf("%w: element size %d", ErrUnsupportedFormat, elemSize)
}

// texElemBytes returns the byte size of one pixel in the given format and
// element type.
func texElemBytes(format, typ driver.Enum) int32 {
	var channels int32
	switch format {
	case driver.LUMINANCE:
		channels = 1
	case driver.LUMINANCE_ALPHA:
		channels = 2
	case driver.RGB:
		channels = 3
	case driver.RGBA:
		channels = 4
	}
	var size int32
	switch typ {
	case driver.UNSIGNED_BYTE:
		size = 1
	case driver.UNSIGNED_SHORT:
		size = 2
	case driver.FLOAT:
		size = 4
	}
	return channels * size
}

// DevMalloc ensures the buffer has a texture bound to its device slot and
// a registry record.
//
// If the device slot is already populated the host application supplied
// the texture; the runtime records it without taking ownership. Otherwise
// a texture matching the buffer's dimensions and color format is
// allocated: up to 4 channels, 8- or 16-bit elements, nearest filtering,
// clamp-to-edge wrap.
func (rt *Runtime) DevMalloc(buf *Buffer) error {
	if !rt.initialized {
		return ErrNotInitialized
	}
	if buf == nil {
		panic("glrun: DevMalloc of nil buffer")
	}

	tex := textureID(buf)
	rec := &textureRecord{}
	if tex != 0 {
		// Host-supplied texture.
		// TODO: check that its storage matches the buffer format.
		rec.id = tex
	} else {
		if buf.Extent[2] > 4 {
			return fmt.Errorf("%w: %d color channels", ErrUnsupportedFormat, buf.Extent[2])
		}
		if buf.Extent[3] > 1 {
			return fmt.Errorf("%w: 3D textures are not supported", ErrUnsupportedFormat)
		}
		format, err := texFormat(buf.Extent[2])
		if err != nil {
			return err
		}
		typ, err := texType(buf.ElemSize)
		if err != nil {
			return err
		}
		w, h := buf.clampedSize()

		tex = rt.gl.GenTexture()
		rt.gl.BindTexture(driver.TEXTURE_2D, tex)
		rt.gl.TexParameteri(driver.TEXTURE_2D, driver.TEXTURE_MIN_FILTER, int32(driver.NEAREST))
		rt.gl.TexParameteri(driver.TEXTURE_2D, driver.TEXTURE_MAG_FILTER, int32(driver.NEAREST))
		rt.gl.TexParameteri(driver.TEXTURE_2D, driver.TEXTURE_WRAP_S, int32(driver.CLAMP_TO_EDGE))
		rt.gl.TexParameteri(driver.TEXTURE_2D, driver.TEXTURE_WRAP_T, int32(driver.CLAMP_TO_EDGE))

		// Allocate empty storage; pixels arrive later via CopyToDev.
		rt.gl.TexImage2D(driver.TEXTURE_2D, 0, format, w, h, format, typ, nil)
		rt.checkGLError("TexImage2D")
		rt.gl.BindTexture(driver.TEXTURE_2D, 0)

		setTextureID(buf, tex)
		rec.id = tex
		rec.format = format
		rec.typ = typ
		rec.runtimeAllocated = true
		rt.log.Debug("glrun: allocated texture", "texture", uint32(tex), "width", w, "height", h)
	}

	for i := 0; i < 3; i++ {
		rec.min[i] = buf.Min[i]
		rec.extent[i] = buf.Extent[i]
	}
	rt.textures[rec.id] = rec
	return nil
}

// DevFree drops the registry record for the buffer's texture. The GL
// texture itself is deleted, and the device slot cleared, only if the
// runtime allocated it; host-supplied textures stay alive and bound.
// A buffer with a zero device slot is a no-op.
func (rt *Runtime) DevFree(buf *Buffer) error {
	if !rt.initialized {
		return ErrNotInitialized
	}

	tex := textureID(buf)
	if tex == 0 {
		return nil
	}

	rec := rt.textures[tex]
	if rec == nil {
		panic(fmt.Sprintf("glrun: no record for texture %d", tex))
	}
	delete(rt.textures, tex)

	if rec.runtimeAllocated {
		rt.gl.DeleteTexture(tex)
		buf.Dev = 0
	}
	return nil
}

// findTexture returns the registry record for a texture handle, or nil.
func (rt *Runtime) findTexture(tex driver.Texture) *textureRecord {
	return rt.textures[tex]
}
