package models

// String methods for all custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// Framework
func (f Framework) String() string { return string(f) }

// DataSource
func (d DataSource) String() string { return string(d) }
