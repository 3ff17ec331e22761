package models

// String methods for the custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// DeadCodeKind
func (d DeadCodeKind) String() string { return string(d) }

// SymbolKind
func (s SymbolKind) String() string { return string(s) }
