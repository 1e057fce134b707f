//go:build windows

package monoshim

import (
	"golang.org/x/sys/windows"

	"github.com/hostbridge/monoshim/errors"
)

type dllLibrary struct {
	handle windows.Handle
}

// OpenLibrary loads the runtime DLL at path and returns a Library over
// its exports. The DLL is never unloaded; Mono does not support
// reinitialization within a process.
func OpenLibrary(path string) (Library, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, errors.Open(path, err)
	}
	return &dllLibrary{handle: handle}, nil
}

func (l *dllLibrary) Lookup(name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(l.handle, name)
	if err != nil || addr == 0 {
		return 0, errors.SymbolNotFound(name, err)
	}
	return addr, nil
}
