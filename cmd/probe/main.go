package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	monoshim "github.com/hostbridge/monoshim"
	"github.com/hostbridge/monoshim/shim"
	"github.com/hostbridge/monoshim/variant"
)

func main() {
	var (
		libPath     = flag.String("lib", "", "Path to the Mono runtime library")
		configPath  = flag.String("config", "", "Path to a TOML config file")
		searchDirs  = flag.String("search", "", "Directories to probe (comma-separated)")
		prefer      = flag.String("prefer", "", "Variant to probe first (legacy, bleeding-edge)")
		capName     = flag.String("cap", "", "Query a single capability and exit")
		list        = flag.Bool("list", false, "List every capability with its backing")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := buildConfig(*configPath, *libPath, *searchDirs, *prefer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *capName, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig merges the config file with command-line overrides. Flags
// win over file values.
func buildConfig(configPath, libPath, searchDirs, prefer string) (*shim.Config, error) {
	cfg := &shim.Config{}
	if configPath != "" {
		loaded, err := shim.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if libPath != "" {
		cfg.LibraryPath = libPath
	}
	if searchDirs != "" {
		cfg.SearchPaths = strings.Split(searchDirs, ",")
	}
	if prefer != "" {
		cfg.Prefer = prefer
	}
	return cfg, nil
}

func attach(cfg *shim.Config) (*shim.Shim, string, error) {
	lib, path, err := cfg.Locate()
	if err != nil {
		return nil, "", err
	}
	s, err := shim.Attach(lib, monoshim.NewNativeMemory(), monoshim.NativeInvoker{})
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

func run(cfg *shim.Config, capName string, list bool) error {
	s, path, err := attach(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Library: %s\n", path)
	fmt.Printf("Variant: %s\n", s.Variant())

	if capName != "" {
		cap := variant.Capability(capName)
		backing, known := s.Backing(cap)
		if !known {
			fmt.Printf("%s: unsupported\n", cap)
			return nil
		}
		status := "unavailable"
		if s.Available(cap) {
			status = "available"
		}
		fmt.Printf("%s: %s (%s)\n", cap, status, backing)
		return nil
	}

	caps := s.Capabilities()
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })

	available := 0
	for _, cap := range caps {
		if s.Available(cap) {
			available++
		}
	}
	fmt.Printf("Capabilities: %d available of %d\n", available, len(caps))

	if !list {
		return nil
	}

	fmt.Println()
	for _, cap := range caps {
		backing, _ := s.Backing(cap)
		marker := " "
		if !s.Available(cap) {
			marker = "!"
		}
		fmt.Printf("%s %-40s %s\n", marker, cap, backing)
	}
	return nil
}
