package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type sourcesFile struct {
	Sources []ComparableSource `yaml:"sources"`
}

// LoadSources reads the comparable sources from a YAML file. An empty path
// returns a copy of DefaultSources.
func LoadSources(path string) ([]ComparableSource, error) {
	if path == "" {
		sources := make([]ComparableSource, len(DefaultSources))
		copy(sources, DefaultSources)
		return sources, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if err := ValidateSources(file.Sources); err != nil {
		return nil, err
	}
	return file.Sources, nil
}

// ValidateSources checks names are present and unique and ratio bounds are ordered
func ValidateSources(sources []ComparableSource) error {
	if len(sources) == 0 {
		return fmt.Errorf("at least one comparable source is required")
	}

	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if s.Name == "" {
			return fmt.Errorf("comparable source name must not be empty")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate comparable source: %s", s.Name)
		}
		seen[s.Name] = true

		if s.MinRatio <= 0 || s.MaxRatio < s.MinRatio {
			return fmt.Errorf("comparable source %s: ratios must satisfy 0 < min_ratio <= max_ratio", s.Name)
		}
	}
	return nil
}
