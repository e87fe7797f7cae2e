package feeders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YamlFeeder reads a YAML file.
type YamlFeeder struct {
	Path string
}

// NewYamlFeeder creates a YamlFeeder reading filePath.
func NewYamlFeeder(filePath string) YamlFeeder {
	return YamlFeeder{Path: filePath}
}

// Feed decodes the file into structure.
func (y YamlFeeder) Feed(structure any) error {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	if err := yaml.Unmarshal(data, structure); err != nil {
		return fmt.Errorf("failed to parse YAML %s: %w", y.Path, err)
	}
	return nil
}
