package services

import (
	"fmt"
	"strings"

	"chatllm/internal/logger"

	"github.com/charmbracelet/lipgloss"
)

// Panel headers for the reasoning trace of thinking models.
const (
	ThinkingCollapsedHeader = "▸ Show thinking"
	ThinkingExpandedHeader  = "▾ Show thinking"
)

// ThinkingRendererService renders the reasoning trace of a split response as
// a "Show thinking" panel.
type ThinkingRendererService struct {
	initialized bool
}

// NewThinkingRendererService creates a new ThinkingRendererService instance.
func NewThinkingRendererService() *ThinkingRendererService {
	return &ThinkingRendererService{}
}

// Name returns the service name "thinking_renderer" for registration.
func (t *ThinkingRendererService) Name() string {
	return "thinking_renderer"
}

// Initialize sets up the ThinkingRendererService.
func (t *ThinkingRendererService) Initialize() error {
	logger.ServiceOperation("thinking_renderer", "initialize", "starting")
	t.initialized = true
	logger.ServiceOperation("thinking_renderer", "initialize", "completed")
	return nil
}

// RenderPanel renders thinking as a panel. A collapsed panel is a single
// header line with the line count; an expanded one shows the trace behind a
// left border. Empty thinking renders as "".
func (t *ThinkingRendererService) RenderPanel(thinking string, expanded bool, theme *Theme) string {
	if !t.initialized {
		logger.Error("ThinkingRendererService not initialized")
		return ""
	}

	thinking = strings.TrimSpace(thinking)
	if thinking == "" {
		return ""
	}
	if theme == nil {
		theme = plainTheme("plain")
	}

	lines := strings.Count(thinking, "\n") + 1
	if !expanded {
		return theme.ThinkingBorder.Render(ThinkingCollapsedHeader) + " " +
			theme.Thinking.Render(lineCount(lines))
	}

	body := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.ThinkingBorder.GetForeground()).
		PaddingLeft(1).
		Render(theme.Thinking.Render(thinking))

	return theme.ThinkingBorder.Render(ThinkingExpandedHeader) + "\n" + body
}

func lineCount(n int) string {
	if n == 1 {
		return "(1 line)"
	}
	return fmt.Sprintf("(%d lines)", n)
}

// IsInitialized returns true if the service has been initialized.
func (t *ThinkingRendererService) IsInitialized() bool {
	return t.initialized
}
