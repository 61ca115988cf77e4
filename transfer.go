package glrun

import (
	"fmt"

	"github.com/gogpu/glrun/driver"
)

// transferFormat resolves the wire format and element type for a buffer's
// texture. Textures the runtime allocated carry the pair chosen at
// allocation; host-supplied textures of unknown format fall back to RGBA
// floats.
func (rt *Runtime) transferFormat(tex driver.Texture) (format, typ driver.Enum) {
	if rec := rt.findTexture(tex); rec != nil && rec.format != 0 {
		return rec.format, rec.typ
	}
	return driver.RGBA, driver.FLOAT
}

// CopyToDev uploads the buffer's host pixels to its texture. It is a
// no-op unless HostDirty is set. The buffer layout must be tightly packed
// interleaved; other layouts return ErrUnsupportedLayout.
func (rt *Runtime) CopyToDev(buf *Buffer) error {
	if !rt.initialized {
		return ErrNotInitialized
	}
	if !buf.HostDirty {
		return nil
	}
	if buf.Host == nil || buf.Dev == 0 {
		panic("glrun: CopyToDev of unbound buffer")
	}

	if !buf.glCompatible() {
		return fmt.Errorf("%w: stride[0]=%d stride[2]=%d extent[2]=%d",
			ErrUnsupportedLayout, buf.Stride[0], buf.Stride[2], buf.Extent[2])
	}

	tex := textureID(buf)
	format, typ := rt.transferFormat(tex)
	w, h := buf.clampedSize()
	size := w * h * texElemBytes(format, typ)
	if int(size) > len(buf.Host) {
		panic(fmt.Sprintf("glrun: host buffer too small: %d bytes, texture needs %d", len(buf.Host), size))
	}

	rt.log.Debug("glrun: copy to device", "texture", uint32(tex))
	rt.gl.BindTexture(driver.TEXTURE_2D, tex)
	rt.gl.TexSubImage2D(driver.TEXTURE_2D, 0, 0, 0, w, h, format, typ, buf.Host[:size])
	rt.checkGLError("TexSubImage2D")
	rt.gl.BindTexture(driver.TEXTURE_2D, 0)

	buf.HostDirty = false
	return nil
}

// CopyToHost reads the texture's pixels back into the buffer's host
// memory. It is a no-op unless DevDirty is set. The same layout
// restriction as CopyToDev applies.
func (rt *Runtime) CopyToHost(buf *Buffer) error {
	if !rt.initialized {
		return ErrNotInitialized
	}
	if !buf.DevDirty {
		return nil
	}
	if buf.Host == nil || buf.Dev == 0 {
		panic("glrun: CopyToHost of unbound buffer")
	}

	if !buf.glCompatible() {
		return fmt.Errorf("%w: stride[0]=%d stride[2]=%d extent[2]=%d",
			ErrUnsupportedLayout, buf.Stride[0], buf.Stride[2], buf.Extent[2])
	}

	tex := textureID(buf)
	format, typ := rt.transferFormat(tex)
	w, h := buf.clampedSize()
	size := w * h * texElemBytes(format, typ)
	if int(size) > len(buf.Host) {
		panic(fmt.Sprintf("glrun: host buffer too small: %d bytes, texture holds %d", len(buf.Host), size))
	}

	rt.log.Debug("glrun: copy to host", "texture", uint32(tex))
	rt.gl.BindTexture(driver.TEXTURE_2D, tex)
	rt.gl.GetTexImage(driver.TEXTURE_2D, 0, format, typ, buf.Host[:size])
	rt.checkGLError("GetTexImage")
	rt.gl.BindTexture(driver.TEXTURE_2D, 0)

	buf.DevDirty = false
	return nil
}
