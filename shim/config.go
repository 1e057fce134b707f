package shim

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/variant"
)

// Config selects which runtime library to attach to. All fields are
// optional; with an empty config the shim probes the known library names
// in the current directory.
type Config struct {
	// LibraryPath is an explicit path to the runtime library. When set,
	// search paths and name probing are skipped.
	LibraryPath string `toml:"library"`

	// SearchPaths are directories probed for the known library names, in
	// order.
	SearchPaths []string `toml:"search-paths"`

	// Prefer names a variant ("legacy" or "bleeding-edge") whose library
	// name is probed first. Detection still runs against whatever
	// library actually loads.
	Prefer string `toml:"prefer"`
}

// LoadConfig parses a shim configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &c, nil
}

// libraryFileName decorates a base library name for the host platform.
func libraryFileName(base string) string {
	switch runtime.GOOS {
	case "windows":
		return base + ".dll"
	case "darwin":
		return "lib" + base + ".dylib"
	default:
		return "lib" + base + ".so"
	}
}

func (c *Config) preferred() []variant.Variant {
	known := variant.Known()
	switch c.Prefer {
	case "legacy":
		return []variant.Variant{variant.Legacy, variant.BleedingEdge}
	case "bleeding-edge":
		return []variant.Variant{variant.BleedingEdge, variant.Legacy}
	default:
		return known
	}
}

// Candidates returns the library paths to try, in probe order.
func (c *Config) Candidates() []string {
	if c.LibraryPath != "" {
		return []string{c.LibraryPath}
	}

	dirs := c.SearchPaths
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	var paths []string
	for _, dir := range dirs {
		for _, v := range c.preferred() {
			paths = append(paths, filepath.Join(dir, libraryFileName(v.LibraryName())))
		}
	}
	return paths
}

// Locate opens the first candidate library that loads. The returned
// path identifies which candidate succeeded.
func (c *Config) Locate() (monoshim.Library, string, error) {
	var lastErr error
	for _, path := range c.Candidates() {
		lib, err := monoshim.OpenLibrary(path)
		if err == nil {
			return lib, path, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no library candidates")
	}
	return nil, "", fmt.Errorf("no runtime library found: %w", lastErr)
}
