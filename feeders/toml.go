package feeders

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// TomlFeeder reads a TOML file.
type TomlFeeder struct {
	Path string
}

func NewTomlFeeder(filePath string) TomlFeeder {
	return TomlFeeder{Path: filePath}
}

// Feed decodes the file into structure.
func (t TomlFeeder) Feed(structure any) error {
	data, err := os.ReadFile(t.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	if _, err := toml.Decode(string(data), structure); err != nil {
		return fmt.Errorf("failed to parse TOML %s: %w", t.Path, err)
	}
	return nil
}
