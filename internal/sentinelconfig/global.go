package sentinelconfig

import (
	"io/fs"
	"sync"
)

var (
	defaultOnce   sync.Once
	defaultLoader *Loader

	resourcesMu      sync.Mutex
	defaultResources fs.FS
)

// SetDefaultResources provides the classpath: resources used by the
// process-wide loader. It has no effect once Default has been called.
func SetDefaultResources(fsys fs.FS) {
	resourcesMu.Lock()
	defaultResources = fsys
	resourcesMu.Unlock()
}

// Default returns the process-wide loader, building and initializing it on
// first use.
func Default() *Loader {
	defaultOnce.Do(func() {
		resourcesMu.Lock()
		fsys := defaultResources
		resourcesMu.Unlock()

		loader := New(WithResources(fsys))
		loader.Init()
		defaultLoader = loader
	})
	return defaultLoader
}

// Properties returns the process-wide configuration store.
func Properties() *Store {
	return Default().Properties()
}

// InitResult reports how the process-wide initialization went.
func InitResult() Result {
	return Default().Init()
}
