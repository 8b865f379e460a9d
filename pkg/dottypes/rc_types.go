package dottypes

// RCConfig represents the user rc file (~/.dotshellrc) loaded from YAML.
// Every field is optional; a missing or malformed rc file degrades to
// built-in defaults without aborting the session.
type RCConfig struct {
	// Theme selects the prompt theme by name. Empty means "default".
	Theme string `yaml:"theme,omitempty"`

	// Aliases maps alias names to their expansions. User aliases shadow
	// the built-in navigation aliases of the same name.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Segments overrides the theme's prompt segments when non-empty.
	Segments []SegmentConfig `yaml:"segments,omitempty"`

	// NodeDir overrides the directory scanned for installed node versions.
	// Defaults to ~/.nvm/versions/node.
	NodeDir string `yaml:"node_dir,omitempty"`
}
