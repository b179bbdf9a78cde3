// Package chattypes defines model catalog types for chatllm.
package chattypes

// ModelCatalogEntry represents a model entry in the embedded model catalog.
type ModelCatalogEntry struct {
	// Name is the provider's model identifier (e.g., "llama3-70b-8192")
	Name string `yaml:"name" json:"name"`

	// DisplayName is a human-readable name for the model
	DisplayName string `yaml:"display_name" json:"display_name"`

	// Description provides a brief description of the model
	Description string `yaml:"description" json:"description"`

	// Thinking marks reasoning models whose output wraps a trace in <think> markers.
	// Their streams are drained and split instead of displayed incrementally.
	Thinking bool `yaml:"thinking,omitempty" json:"thinking,omitempty"`

	// ContextWindow is the maximum number of tokens the model can process
	ContextWindow int `yaml:"context_window" json:"context_window"`

	// Default marks the model selected when a session starts.
	Default bool `yaml:"default,omitempty" json:"default,omitempty"`
}

// ModelCatalogProvider represents a provider's model catalog loaded from YAML.
type ModelCatalogProvider struct {
	// Provider is the provider name (e.g., "groq", "anthropic")
	Provider string `yaml:"provider" json:"provider"`

	// BaseURL is the default API endpoint for OpenAI-compatible providers
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Models is the list of models available from this provider
	Models []ModelCatalogEntry `yaml:"models" json:"models"`
}
