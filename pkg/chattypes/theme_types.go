package chattypes

// ThemeConfig represents a theme loaded from YAML.
type ThemeConfig struct {
	// Name is the theme identifier (e.g., "default", "dark", "light", "plain")
	Name string `yaml:"name" json:"name"`

	// Description provides a brief description of the theme
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Styles ThemeStyles `yaml:"styles" json:"styles"`
}

// ThemeStyles defines the styling of each element of the chat transcript.
type ThemeStyles struct {
	User           StyleConfig `yaml:"user" json:"user"`
	Assistant      StyleConfig `yaml:"assistant" json:"assistant"`
	System         StyleConfig `yaml:"system" json:"system"`
	Thinking       StyleConfig `yaml:"thinking" json:"thinking"`
	ThinkingBorder StyleConfig `yaml:"thinking_border" json:"thinking_border"`
	Status         StyleConfig `yaml:"status" json:"status"`
	Error          StyleConfig `yaml:"error" json:"error"`
	Highlight      StyleConfig `yaml:"highlight" json:"highlight"`
	List           StyleConfig `yaml:"list" json:"list"`
}

// StyleConfig defines the visual styling for a single element.
// Colors are either a plain string or a {light, dark} mapping.
type StyleConfig struct {
	Foreground interface{} `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Background interface{} `yaml:"background,omitempty" json:"background,omitempty"`

	Bold      *bool `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic    *bool `yaml:"italic,omitempty" json:"italic,omitempty"`
	Underline *bool `yaml:"underline,omitempty" json:"underline,omitempty"`
}
