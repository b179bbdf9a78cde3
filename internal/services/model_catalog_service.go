package services

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"chatllm/internal/data/embedded"
	"chatllm/pkg/chattypes"
)

// ModelCatalogService loads the embedded per-provider YAML model catalogs.
type ModelCatalogService struct {
	initialized bool
	catalogs    map[string]chattypes.ModelCatalogProvider
}

// NewModelCatalogService creates a new ModelCatalogService instance.
func NewModelCatalogService() *ModelCatalogService {
	return &ModelCatalogService{
		catalogs: make(map[string]chattypes.ModelCatalogProvider),
	}
}

// Name returns the service name "model_catalog" for registration.
func (m *ModelCatalogService) Name() string {
	return "model_catalog"
}

// Initialize parses every embedded catalog and validates it.
func (m *ModelCatalogService) Initialize() error {
	for _, provider := range embedded.CatalogProviders() {
		data, err := embedded.CatalogData(provider)
		if err != nil {
			return err
		}

		catalog, err := m.loadCatalogFile(data)
		if err != nil {
			return fmt.Errorf("failed to load %s catalog: %w", provider, err)
		}
		if err := m.validateCatalog(catalog); err != nil {
			return fmt.Errorf("%s catalog validation failed: %w", provider, err)
		}
		m.catalogs[strings.ToLower(catalog.Provider)] = catalog
	}

	m.initialized = true
	return nil
}

// GetSupportedProviders returns the providers with a catalog, sorted by name.
func (m *ModelCatalogService) GetSupportedProviders() []string {
	return embedded.CatalogProviders()
}

// GetProviderCatalog returns the catalog of one provider.
func (m *ModelCatalogService) GetProviderCatalog(provider string) (chattypes.ModelCatalogProvider, error) {
	if !m.initialized {
		return chattypes.ModelCatalogProvider{}, fmt.Errorf("model catalog: %w", ErrNotInitialized)
	}

	catalog, ok := m.catalogs[strings.ToLower(provider)]
	if !ok {
		return chattypes.ModelCatalogProvider{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return catalog, nil
}

// GetModelCatalogByProvider returns the models of one provider in catalog order.
func (m *ModelCatalogService) GetModelCatalogByProvider(provider string) ([]chattypes.ModelCatalogEntry, error) {
	catalog, err := m.GetProviderCatalog(provider)
	if err != nil {
		return nil, err
	}
	models := make([]chattypes.ModelCatalogEntry, len(catalog.Models))
	copy(models, catalog.Models)
	return models, nil
}

// SearchModelCatalog returns models of any provider whose name, display name
// or description contains query (case-insensitive).
func (m *ModelCatalogService) SearchModelCatalog(query string) ([]chattypes.ModelCatalogEntry, error) {
	if !m.initialized {
		return nil, fmt.Errorf("model catalog: %w", ErrNotInitialized)
	}

	queryLower := strings.ToLower(query)
	var matches []chattypes.ModelCatalogEntry
	for _, provider := range m.GetSupportedProviders() {
		for _, model := range m.catalogs[provider].Models {
			if strings.Contains(strings.ToLower(model.Name), queryLower) ||
				strings.Contains(strings.ToLower(model.DisplayName), queryLower) ||
				strings.Contains(strings.ToLower(model.Description), queryLower) {
				matches = append(matches, model)
			}
		}
	}
	return matches, nil
}

// validateCatalog checks for empty and duplicate model names (case-insensitive)
// and that at most one model is marked default.
func (m *ModelCatalogService) validateCatalog(catalog chattypes.ModelCatalogProvider) error {
	if catalog.Provider == "" {
		return fmt.Errorf("catalog has empty provider field")
	}

	seen := make(map[string]string)
	defaults := 0
	for _, model := range catalog.Models {
		if model.Name == "" {
			return fmt.Errorf("model '%s' has empty name field", model.DisplayName)
		}
		normalized := strings.ToLower(model.Name)
		if existing, ok := seen[normalized]; ok {
			return fmt.Errorf("duplicate model name found: '%s' and '%s' (case insensitive)", existing, model.Name)
		}
		seen[normalized] = model.Name
		if model.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%d models marked default", defaults)
	}
	return nil
}

func (m *ModelCatalogService) loadCatalogFile(data []byte) (chattypes.ModelCatalogProvider, error) {
	var catalog chattypes.ModelCatalogProvider
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return chattypes.ModelCatalogProvider{}, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return catalog, nil
}
