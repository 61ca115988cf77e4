package glrun

// The package-level functions mirror the host ABI of the generated
// pipelines on a process-wide default runtime. They exist for generated
// host code that expects free functions; library users should hold an
// explicit *Runtime instead.
//
// Unlike the Runtime methods, which return ErrNotInitialized, the
// wrappers treat use before Open as a fatal contract violation and panic:
// generated code has no error path before initialization.

// defaultRuntime is the process-wide runtime behind the ABI wrappers.
// Lifecycle is bracketed by Open and Release; access is single-threaded
// by the same contract as the Runtime methods.
var defaultRuntime *Runtime

// Open initializes the process-wide default runtime. It is idempotent:
// once a default runtime is initialized, further calls (with any options)
// return immediately.
func Open(opts ...Option) error {
	if defaultRuntime != nil {
		return defaultRuntime.Open()
	}
	rt, err := New(opts...)
	if err != nil {
		return err
	}
	if err := rt.Open(); err != nil {
		return err
	}
	defaultRuntime = rt
	return nil
}

// Release reclaims the default runtime. The texture registry must be
// empty.
func Release() {
	rt := mustDefault()
	_ = rt.Release()
	defaultRuntime = nil
}

func mustDefault() *Runtime {
	if defaultRuntime == nil || !defaultRuntime.initialized {
		panic(ErrNotInitialized)
	}
	return defaultRuntime
}

// InitKernels registers all kernels in src on the default runtime.
func InitKernels(src string) error {
	return mustDefault().InitKernels(src)
}

// DevMalloc binds a texture to the buffer on the default runtime.
func DevMalloc(buf *Buffer) error {
	return mustDefault().DevMalloc(buf)
}

// DevFree releases the buffer's texture record on the default runtime.
func DevFree(buf *Buffer) error {
	return mustDefault().DevFree(buf)
}

// CopyToDev uploads dirty host pixels on the default runtime.
func CopyToDev(buf *Buffer) error {
	return mustDefault().CopyToDev(buf)
}

// CopyToHost reads back dirty device pixels on the default runtime.
func CopyToHost(buf *Buffer) error {
	return mustDefault().CopyToHost(buf)
}

// DevSync waits for issued GL commands on the default runtime.
func DevSync() error {
	return mustDefault().DevSync()
}

// DevRun dispatches a kernel by entry name on the default runtime.
func DevRun(
	name string,
	blocksX, blocksY, blocksZ int,
	threadsX, threadsY, threadsZ int,
	sharedMemBytes int,
	args []Value,
) error {
	return mustDefault().DevRun(name, blocksX, blocksY, blocksZ,
		threadsX, threadsY, threadsZ, sharedMemBytes, args)
}
