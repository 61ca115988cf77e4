package glrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glrun/driver/drivertest"
)

// resetDefault clears the process-wide runtime between tests.
func resetDefault(t *testing.T) {
	t.Helper()
	defaultRuntime = nil
	t.Cleanup(func() { defaultRuntime = nil })
}

func TestWrappersPanicBeforeOpen(t *testing.T) {
	resetDefault(t)
	buf := NewInterleavedBuffer(1, 1, 1, 1)
	wrappers := map[string]func(){
		"InitKernels": func() { _ = InitKernels("") },
		"DevMalloc":   func() { _ = DevMalloc(buf) },
		"DevFree":     func() { _ = DevFree(buf) },
		"CopyToDev":   func() { _ = CopyToDev(buf) },
		"CopyToHost":  func() { _ = CopyToHost(buf) },
		"DevSync":     func() { _ = DevSync() },
		"DevRun":      func() { _ = DevRun("k", 1, 1, 1, 1, 1, 1, 0, nil) },
		"Release":     func() { Release() },
	}
	for name, fn := range wrappers {
		t.Run(name, func(t *testing.T) {
			mustPanic(t, fn)
		})
	}
}

func TestDefaultRuntimeFlow(t *testing.T) {
	resetDefault(t)
	fake := drivertest.New()
	require.NoError(t, Open(WithDriver(fake)))
	require.NoError(t, Open(), "second Open must be a no-op")

	require.NoError(t, InitKernels("/// KERNEL k\n/// OUT buffer output\nvoid main() {}\n"))

	buf := NewInterleavedBuffer(4, 4, 4, 1)
	require.NoError(t, DevMalloc(buf))
	buf.HostDirty = true
	require.NoError(t, CopyToDev(buf))
	require.NoError(t, DevRun("k", 1, 1, 1, 1, 1, 1, 0, []Value{Tex(buf)}))
	buf.DevDirty = true
	require.NoError(t, CopyToHost(buf))
	require.NoError(t, DevSync())
	require.NoError(t, DevFree(buf))

	Release()
	assert.Nil(t, defaultRuntime)
}
