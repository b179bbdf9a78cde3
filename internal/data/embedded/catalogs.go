// Package embedded provides the model catalogs and terminal themes compiled into
// the chatllm binary.
package embedded

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// CatalogFS contains one model catalog YAML file per provider.
//
//go:embed catalogs/*.yaml
var CatalogFS embed.FS

// CatalogData returns the raw catalog YAML for provider.
func CatalogData(provider string) ([]byte, error) {
	data, err := CatalogFS.ReadFile(path.Join("catalogs", strings.ToLower(provider)+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("catalog for provider %q: %w", provider, err)
	}
	return data, nil
}

// CatalogProviders lists the providers with an embedded catalog, sorted by name.
func CatalogProviders() []string {
	entries, err := CatalogFS.ReadDir("catalogs")
	if err != nil {
		return nil
	}
	providers := make([]string, 0, len(entries))
	for _, e := range entries {
		providers = append(providers, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(providers)
	return providers
}
