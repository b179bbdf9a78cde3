package services

import (
	"fmt"
	"slices"
	"strings"

	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"
)

// ModelService resolves the model list offered to the user from the
// configuration and the embedded catalog of the selected provider.
type ModelService struct {
	initialized bool
	config      *ConfigurationService
	catalog     *ModelCatalogService

	provider string
	baseURL  string
	models   []string
	thinking map[string]bool
	def      string
}

// NewModelService creates a ModelService backed by config and catalog.
// Both must be initialized before this service.
func NewModelService(config *ConfigurationService, catalog *ModelCatalogService) *ModelService {
	return &ModelService{
		config:   config,
		catalog:  catalog,
		thinking: make(map[string]bool),
	}
}

// Name returns the service name "model" for registration.
func (m *ModelService) Name() string {
	return "model"
}

// Initialize resolves provider, endpoint, model list, thinking models and the startup model.
// Configured values win over catalog values.
func (m *ModelService) Initialize() error {
	m.provider = m.config.Provider()
	if _, ok := ProviderEnvVar(m.provider); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, m.provider)
	}

	var entries []chattypes.ModelCatalogEntry
	catalog, err := m.catalog.GetProviderCatalog(m.provider)
	if err == nil {
		entries = catalog.Models
	}

	m.baseURL = m.config.BaseURL()
	if m.baseURL == "" {
		m.baseURL = catalog.BaseURL
	}

	m.models = m.config.Models()
	if len(m.models) == 0 {
		for _, e := range entries {
			m.models = append(m.models, e.Name)
		}
	}
	if len(m.models) == 0 {
		return fmt.Errorf("no models configured for provider %s", m.provider)
	}

	m.thinking = make(map[string]bool)
	if configured := m.config.ThinkingModels(); configured != nil {
		for _, name := range configured {
			m.thinking[name] = true
		}
	} else {
		for _, e := range entries {
			if e.Thinking {
				m.thinking[e.Name] = true
			}
		}
	}

	m.def = m.config.DefaultModel()
	if m.def != "" && !slices.Contains(m.models, m.def) {
		return fmt.Errorf("default model %q is not in the model list", m.def)
	}
	if m.def == "" {
		for _, e := range entries {
			if e.Default && slices.Contains(m.models, e.Name) {
				m.def = e.Name
			}
		}
	}
	if m.def == "" {
		m.def = m.models[0]
	}

	logger.Debug("Models resolved", "provider", m.provider, "models", len(m.models), "default", m.def)
	m.initialized = true
	return nil
}

// Provider returns the selected provider.
func (m *ModelService) Provider() string {
	return m.provider
}

// BaseURL returns the endpoint for OpenAI-compatible providers, if any.
func (m *ModelService) BaseURL() string {
	return m.baseURL
}

// Models returns the selectable models in display order.
func (m *ModelService) Models() []string {
	return slices.Clone(m.models)
}

// DefaultModel returns the model selected when a session starts.
func (m *ModelService) DefaultModel() string {
	return m.def
}

// IsThinking reports whether model wraps its reasoning in think markers.
func (m *ModelService) IsThinking(model string) bool {
	return m.thinking[model]
}

// Contains reports whether model is selectable.
func (m *ModelService) Contains(model string) bool {
	return slices.Contains(m.models, model)
}

// ByIndex returns the model at a 1-based list position.
func (m *ModelService) ByIndex(n int) (string, error) {
	if n < 1 || n > len(m.models) {
		return "", fmt.Errorf("model number %d out of range 1-%d", n, len(m.models))
	}
	return m.models[n-1], nil
}

// Resolve accepts either a 1-based list position or a model name.
func (m *ModelService) Resolve(choice string) (string, error) {
	choice = strings.TrimSpace(choice)
	var n int
	if _, err := fmt.Sscanf(choice, "%d", &n); err == nil && fmt.Sprint(n) == choice {
		return m.ByIndex(n)
	}
	if m.Contains(choice) {
		return choice, nil
	}
	return "", fmt.Errorf("unknown model %q", choice)
}
