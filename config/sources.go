package config

// ComparableSource describes a named external estimate contributor. Synthetic
// estimates for the source are drawn from base value × [MinRatio, MaxRatio).
type ComparableSource struct {
	Name     string  `yaml:"name" json:"name"`
	URL      string  `yaml:"url" json:"url"`
	MinRatio float64 `yaml:"min_ratio" json:"min_ratio"`
	MaxRatio float64 `yaml:"max_ratio" json:"max_ratio"`
}

// DefaultSources is the comparable source list used when no sources file is configured
var DefaultSources = []ComparableSource{
	{
		Name:     "Domain.com.au",
		URL:      "https://domain.com.au",
		MinRatio: 0.90,
		MaxRatio: 1.10,
	},
	{
		Name:     "Realestate.com.au",
		URL:      "https://realestate.com.au",
		MinRatio: 0.85,
		MaxRatio: 1.15,
	},
	{
		Name:     "PropertyValue.com.au",
		URL:      "https://propertyvalue.com.au",
		MinRatio: 0.95,
		MaxRatio: 1.05,
	},
}

// GetSourceNames returns the names of the given sources in order
func GetSourceNames(sources []ComparableSource) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name
	}
	return names
}

// GetSourceByName returns a source by name
func GetSourceByName(sources []ComparableSource, name string) *ComparableSource {
	for _, s := range sources {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
