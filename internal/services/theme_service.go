package services

import (
	"fmt"
	"sort"
	"strings"

	"chatllm/internal/data/embedded"
	"chatllm/internal/logger"
	"chatllm/pkg/chattypes"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// ThemeService provides the terminal themes used to style the transcript.
type ThemeService struct {
	initialized bool
	themes      map[string]*Theme
}

// Theme holds one lipgloss style per transcript element.
type Theme struct {
	Name           string
	User           lipgloss.Style
	Assistant      lipgloss.Style
	System         lipgloss.Style
	Thinking       lipgloss.Style
	ThinkingBorder lipgloss.Style
	Status         lipgloss.Style
	Error          lipgloss.Style
	Highlight      lipgloss.Style
	List           lipgloss.Style
}

// NewThemeService creates a new ThemeService instance with themes loaded from YAML.
func NewThemeService() *ThemeService {
	service := &ThemeService{
		themes: make(map[string]*Theme),
	}
	service.loadThemesFromYAML()
	return service
}

// Name returns the service name "theme" for registration.
func (t *ThemeService) Name() string {
	return "theme"
}

// Initialize sets up the ThemeService for operation.
func (t *ThemeService) Initialize() error {
	t.initialized = true
	return nil
}

func (t *ThemeService) loadThemesFromYAML() {
	for _, themeName := range embedded.ThemeNames() {
		themeData, err := embedded.ThemeData(themeName)
		if err != nil {
			logger.Error("Failed to read theme", "theme", themeName, "error", err)
			continue
		}
		theme, err := t.loadThemeFile(themeData)
		if err != nil {
			logger.Error("Failed to load theme", "theme", themeName, "error", err)
			t.themes[themeName] = plainTheme(themeName)
			continue
		}
		t.themes[themeName] = theme
	}

	if _, exists := t.themes["plain"]; !exists {
		t.themes["plain"] = plainTheme("plain")
	}
}

func (t *ThemeService) loadThemeFile(data []byte) (*Theme, error) {
	var config chattypes.ThemeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}

	return &Theme{
		Name:           config.Name,
		User:           createStyle(config.Styles.User),
		Assistant:      createStyle(config.Styles.Assistant),
		System:         createStyle(config.Styles.System),
		Thinking:       createStyle(config.Styles.Thinking),
		ThinkingBorder: createStyle(config.Styles.ThinkingBorder),
		Status:         createStyle(config.Styles.Status),
		Error:          createStyle(config.Styles.Error),
		Highlight:      createStyle(config.Styles.Highlight),
		List:           createStyle(config.Styles.List),
	}, nil
}

func createStyle(config chattypes.StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()

	if color := parseColor(config.Foreground); color != nil {
		style = style.Foreground(color)
	}
	if color := parseColor(config.Background); color != nil {
		style = style.Background(color)
	}

	if config.Bold != nil && *config.Bold {
		style = style.Bold(true)
	}
	if config.Italic != nil && *config.Italic {
		style = style.Italic(true)
	}
	if config.Underline != nil && *config.Underline {
		style = style.Underline(true)
	}

	return style
}

// parseColor accepts a color string or a {light, dark} mapping.
func parseColor(colorValue interface{}) lipgloss.TerminalColor {
	switch v := colorValue.(type) {
	case string:
		return lipgloss.Color(v)
	case map[string]interface{}:
		light, hasLight := v["light"].(string)
		dark, hasDark := v["dark"].(string)
		if hasLight && hasDark {
			return lipgloss.AdaptiveColor{Light: light, Dark: dark}
		}
		return nil
	default:
		return nil
	}
}

func plainTheme(name string) *Theme {
	return &Theme{
		Name:           name,
		User:           lipgloss.NewStyle(),
		Assistant:      lipgloss.NewStyle(),
		System:         lipgloss.NewStyle(),
		Thinking:       lipgloss.NewStyle(),
		ThinkingBorder: lipgloss.NewStyle(),
		Status:         lipgloss.NewStyle(),
		Error:          lipgloss.NewStyle(),
		Highlight:      lipgloss.NewStyle(),
		List:           lipgloss.NewStyle(),
	}
}

// GetAvailableThemes returns the sorted theme names.
func (t *ThemeService) GetAvailableThemes() []string {
	if !t.initialized {
		return []string{}
	}

	themes := make([]string, 0, len(t.themes))
	for name := range t.themes {
		themes = append(themes, name)
	}
	sort.Strings(themes)
	return themes
}

// GetThemeByName returns the named theme, case-insensitively. Unknown names
// and terminals without color support get the plain theme. Never nil.
func (t *ThemeService) GetThemeByName(name string) *Theme {
	if !t.initialized {
		return plainTheme("plain")
	}

	if !IsColorSupported() {
		return t.themes["plain"]
	}

	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = "default"
	}
	if theme, exists := t.themes[normalized]; exists {
		return theme
	}

	logger.Debug("Invalid theme requested, using plain theme", "theme", name, "available", t.GetAvailableThemes())
	return t.themes["plain"]
}

// IsColorSupported reports whether the terminal renders colors.
func IsColorSupported() bool {
	return lipgloss.ColorProfile() != termenv.Ascii
}

// RoleStyle returns the label style for messages of role.
func (t *Theme) RoleStyle(role chattypes.Role) lipgloss.Style {
	switch role {
	case chattypes.RoleUser:
		return t.User
	case chattypes.RoleAssistant:
		return t.Assistant
	default:
		return t.System
	}
}

// CreateNumberedList creates a 1-based numbered list; the item at highlight
// (0-based, -1 for none) is rendered with the highlight style.
func (t *Theme) CreateNumberedList(items []string, highlight int) *list.List {
	l := list.New().Enumerator(list.Arabic).EnumeratorStyle(t.List.PaddingRight(1))
	for i, item := range items {
		if i == highlight {
			item = t.Highlight.Render(item)
		}
		l.Item(item)
	}
	return l
}
