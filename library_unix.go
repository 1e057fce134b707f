//go:build darwin || freebsd || linux

package monoshim

import (
	"github.com/ebitengine/purego"

	"github.com/hostbridge/monoshim/errors"
)

type dlLibrary struct {
	handle uintptr
}

// OpenLibrary loads the runtime shared library at path and returns a
// Library over its exports. The library is never unloaded; Mono does not
// support reinitialization within a process.
func OpenLibrary(path string) (Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Open(path, err)
	}
	return &dlLibrary{handle: handle}, nil
}

func (l *dlLibrary) Lookup(name string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return 0, errors.SymbolNotFound(name, err)
	}
	return addr, nil
}
