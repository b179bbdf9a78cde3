package services

import (
	"fmt"
	"strings"

	"chatllm/internal/logger"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is the markdown wrap width used until SetWordWrap is called.
const DefaultWordWrap = 80

// MarkdownService renders assistant answers for the terminal using Glamour.
type MarkdownService struct {
	initialized bool
	style       string
	wordWrap    int
	renderer    *glamour.TermRenderer
}

// NewMarkdownService creates a new MarkdownService instance.
func NewMarkdownService() *MarkdownService {
	return &MarkdownService{
		style:    "auto",
		wordWrap: DefaultWordWrap,
	}
}

// Name returns the service name "markdown" for registration.
func (m *MarkdownService) Name() string {
	return "markdown"
}

// Initialize sets up the MarkdownService with default configuration.
func (m *MarkdownService) Initialize() error {
	if err := m.rebuild(); err != nil {
		return err
	}
	m.initialized = true

	logger.Debug("MarkdownService initialized successfully", "style", m.style)
	return nil
}

func (m *MarkdownService) rebuild() error {
	styleOption := glamour.WithAutoStyle()
	if m.style != "auto" {
		styleOption = glamour.WithStandardStyle(m.style)
	}

	renderer, err := glamour.NewTermRenderer(
		styleOption,
		glamour.WithWordWrap(m.wordWrap),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	m.renderer = renderer
	return nil
}

// Render renders markdown to ANSI terminal output. Blank input renders as "".
func (m *MarkdownService) Render(markdown string) (string, error) {
	if !m.initialized {
		return "", fmt.Errorf("markdown service: %w", ErrNotInitialized)
	}
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}

	rendered, err := m.renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return rendered, nil
}

// SetTheme switches the Glamour style to match a terminal theme.
func (m *MarkdownService) SetTheme(themeName string) error {
	m.style = MapThemeToGlamourStyle(themeName)
	if !m.initialized {
		return nil
	}
	return m.rebuild()
}

// SetWordWrap sets the word wrap width for markdown rendering.
func (m *MarkdownService) SetWordWrap(width int) error {
	if width <= 0 {
		return fmt.Errorf("word wrap width must be positive, got %d", width)
	}
	m.wordWrap = width
	if !m.initialized {
		return nil
	}
	logger.Debug("MarkdownService word wrap updated", "width", width)
	return m.rebuild()
}

// Style returns the active Glamour style name.
func (m *MarkdownService) Style() string {
	return m.style
}

// MapThemeToGlamourStyle maps terminal theme names to Glamour styles.
func MapThemeToGlamourStyle(themeName string) string {
	switch strings.ToLower(strings.TrimSpace(themeName)) {
	case "dark":
		return "dark"
	case "light":
		return "light"
	case "plain":
		return "notty"
	default:
		return "auto"
	}
}
