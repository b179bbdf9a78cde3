package embedded

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// ThemeFS contains the terminal themes, one YAML file per theme. Each file maps
// the chat roles, thinking panel, status and error lines to lipgloss styles.
//
//go:embed themes/*.yaml
var ThemeFS embed.FS

// ThemeData returns the raw theme YAML for name.
func ThemeData(name string) ([]byte, error) {
	data, err := ThemeFS.ReadFile(path.Join("themes", strings.ToLower(name)+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return data, nil
}

// ThemeNames lists the embedded themes, sorted by name.
func ThemeNames() []string {
	entries, err := ThemeFS.ReadDir("themes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
