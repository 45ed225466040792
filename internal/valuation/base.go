package valuation

// Preset is a floor/range pair for the base value model
type Preset struct {
	Floor int64 `yaml:"floor"`
	Range int64 `yaml:"range"`
}

var (
	// AddressOnlyPreset is used for single-property value history
	AddressOnlyPreset = Preset{Floor: 500000, Range: 1500000}
	// MultiSourcePreset is used for comparable-source valuations
	MultiSourcePreset = Preset{Floor: 500000, Range: 2000000}
)

// Apply maps a seed onto the preset's value range
func (p Preset) Apply(seed Seed) int64 {
	return BaseValue(seed, p.Floor, p.Range)
}

// BaseValue returns floor + (seed mod rng). A non-positive range yields the floor.
func BaseValue(seed Seed, floor, rng int64) int64 {
	if rng <= 0 {
		return floor
	}
	s := int64(seed)
	if s < 0 {
		s = -s
	}
	return floor + s%rng
}
