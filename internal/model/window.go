package model

// Window summarizes a top-level window for listings.
type Window struct {
	App        string `yaml:"app"              json:"app"`
	Name       string `yaml:"name"             json:"name"`
	Identifier string `yaml:"identifier"       json:"identifier"`
	Role       string `yaml:"role"             json:"role"`
	Bounds     *Rect  `yaml:"bounds,omitempty" json:"bounds,omitempty"`
}
