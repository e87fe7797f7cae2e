// Package feeders fills configuration structs from YAML and TOML files and
// from prefixed environment variables.
package feeders

// Feeder fills structure, a pointer to a struct. Fields the source does not
// mention are left untouched, so feeders can be applied in sequence.
type Feeder interface {
	Feed(structure any) error
}
