package domain

// Asset describes immutable reference data for a tradable token.
// Instances come from the registry and are never mutated by the engine.
type Asset struct {
	ID       string `yaml:"id"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Icon     string `yaml:"icon"`
	Decimals int    `yaml:"decimals"`
}

// IsZero reports whether the asset is the empty value.
func (a Asset) IsZero() bool {
	return a.Symbol == ""
}
