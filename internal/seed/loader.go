// Package seed loads assessment definitions authored as YAML. Batteries are
// hand-written data, so every loaded definition is normalized and validated
// before it can reach storage.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"resistmap/internal/model"
)

type file struct {
	Definitions []*model.Definition `yaml:"definitions"`
}

// Load reads and validates all definitions in a YAML file
func Load(path string) ([]*model.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates definitions from raw YAML
func Parse(data []byte) ([]*model.Definition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed YAML: %w", err)
	}
	if len(f.Definitions) == 0 {
		return nil, fmt.Errorf("seed file declares no definitions")
	}

	seen := make(map[string]bool, len(f.Definitions))
	for _, def := range f.Definitions {
		def.Normalize()
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("definition %q: %w", def.Category, err)
		}
		if seen[def.Category] {
			return nil, fmt.Errorf("seed file declares category %q twice", def.Category)
		}
		seen[def.Category] = true
	}
	return f.Definitions, nil
}
