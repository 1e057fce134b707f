package variant

// SymbolEntry names a foreign entry point together with the fallback
// aliases some builds export instead. Resolution tries Name first, then
// Aliases in declared order; the first hit wins.
type SymbolEntry struct {
	Name    string
	Aliases []string

	// Arity is the declared parameter count, counting out-parameters.
	// It documents the foreign contract and is surfaced by diagnostic
	// tooling; dispatch passes whatever the call site supplies.
	Arity uint8

	// HasResult records whether the export returns a value.
	HasResult bool
}

// Names returns the canonical name followed by the aliases, in resolution
// order.
func (s SymbolEntry) Names() []string {
	names := make([]string, 0, 1+len(s.Aliases))
	names = append(names, s.Name)
	names = append(names, s.Aliases...)
	return names
}

// sym is the registry shorthand for an export with no aliases.
func sym(name string, arity uint8, hasResult bool) Backing {
	return Backing{Symbol: &SymbolEntry{Name: name, Arity: arity, HasResult: hasResult}}
}

// symAlias is the registry shorthand for an export with fallback aliases.
func symAlias(name string, arity uint8, hasResult bool, aliases ...string) Backing {
	return Backing{Symbol: &SymbolEntry{Name: name, Aliases: aliases, Arity: arity, HasResult: hasResult}}
}

// field is the registry shorthand for a raw field read.
func field(d FieldDescriptor) Backing {
	return Backing{Field: &d}
}
