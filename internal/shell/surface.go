package shell

import (
	"fmt"
	"io"
	"strings"

	"chatllm/internal/logger"
	"chatllm/internal/services"
	"chatllm/pkg/chattypes"

	"github.com/charmbracelet/x/ansi"
)

// Role labels shown in front of each message.
var roleLabels = map[chattypes.Role]string{
	chattypes.RoleUser:      "You",
	chattypes.RoleAssistant: "Assistant",
	chattypes.RoleSystem:    "System",
}

// TerminalSurface renders a conversation to a terminal writer.
// It implements chattypes.Surface.
type TerminalSurface struct {
	out       io.Writer
	theme     *services.Theme
	markdown  *services.MarkdownService
	thinking  *services.ThinkingRendererService
	showPanel bool

	// expandReplay expands thinking panels of replayed messages.
	expandReplay bool
	statusShown  bool
	streaming    bool
}

// SurfaceOptions configures a TerminalSurface.
type SurfaceOptions struct {
	Theme    *services.Theme
	Markdown *services.MarkdownService
	Thinking *services.ThinkingRendererService
	// ShowThinking false hides thinking panels entirely.
	ShowThinking bool
}

// NewTerminalSurface creates a surface writing to out.
func NewTerminalSurface(out io.Writer, opts SurfaceOptions) *TerminalSurface {
	theme := opts.Theme
	if theme == nil {
		theme = services.NewThemeService().GetThemeByName("plain")
	}
	return &TerminalSurface{
		out:       out,
		theme:     theme,
		markdown:  opts.Markdown,
		thinking:  opts.Thinking,
		showPanel: opts.ShowThinking,
	}
}

// RenderMessage displays a live message. Thinking panels are expanded.
func (s *TerminalSurface) RenderMessage(msg chattypes.Message) {
	s.renderMessage(msg, true)
}

// ReplayMessage displays a stored message. Thinking panels are collapsed
// unless ToggleThinking expanded them.
func (s *TerminalSurface) ReplayMessage(msg chattypes.Message) {
	s.renderMessage(msg, s.expandReplay)
}

// ToggleThinking flips expansion of replayed thinking panels and returns the new state.
func (s *TerminalSurface) ToggleThinking() bool {
	s.expandReplay = !s.expandReplay
	return s.expandReplay
}

func (s *TerminalSurface) renderMessage(msg chattypes.Message, expanded bool) {
	s.clearStatusLine()

	label := s.theme.RoleStyle(msg.Role).Render(roleLabels[msg.Role])
	text := msg.Content.Outbound()

	if msg.Role != chattypes.RoleAssistant {
		fmt.Fprintf(s.out, "%s: %s\n", label, text)
		return
	}

	fmt.Fprintf(s.out, "%s:\n", label)
	if msg.Content.HasThinking() && s.showPanel && s.thinking != nil {
		if panel := s.thinking.RenderPanel(msg.Content.Thinking, expanded, s.theme); panel != "" {
			fmt.Fprintln(s.out, panel)
		}
	}
	fmt.Fprintln(s.out, s.renderMarkdown(text))
}

func (s *TerminalSurface) renderMarkdown(text string) string {
	if s.markdown == nil || strings.HasPrefix(text, "Error: ") {
		return text
	}
	rendered, err := s.markdown.Render(text)
	if err != nil {
		logger.Debug("Markdown rendering failed, printing raw text", "error", err)
		return text
	}
	return strings.Trim(rendered, "\n")
}

// BeginStream prints the role label; fragments follow on the next line.
func (s *TerminalSurface) BeginStream(role chattypes.Role) {
	s.clearStatusLine()
	fmt.Fprintf(s.out, "%s:\n", s.theme.RoleStyle(role).Render(roleLabels[role]))
	s.streaming = true
}

// WriteFragment prints a fragment as received.
func (s *TerminalSurface) WriteFragment(fragment string) {
	fmt.Fprint(s.out, fragment)
}

// EndStream terminates the streamed line.
func (s *TerminalSurface) EndStream() {
	if s.streaming {
		fmt.Fprintln(s.out)
		s.streaming = false
	}
}

// ShowStatus prints a transient status line that ClearStatus erases.
func (s *TerminalSurface) ShowStatus(text string) {
	s.clearStatusLine()
	fmt.Fprint(s.out, s.theme.Status.Render(text))
	s.statusShown = true
}

// ClearStatus erases the status line, if one is shown.
func (s *TerminalSurface) ClearStatus() {
	s.clearStatusLine()
}

func (s *TerminalSurface) clearStatusLine() {
	if !s.statusShown {
		return
	}
	fmt.Fprint(s.out, "\r"+ansi.EraseEntireLine)
	s.statusShown = false
}

// ShowError prints text in the error style.
func (s *TerminalSurface) ShowError(text string) {
	s.clearStatusLine()
	if s.streaming {
		fmt.Fprintln(s.out)
		s.streaming = false
	}
	fmt.Fprintln(s.out, s.theme.Error.Render(text))
}

// Println prints informational output of the shell itself.
func (s *TerminalSurface) Println(text string) {
	s.clearStatusLine()
	fmt.Fprintln(s.out, text)
}

// Theme returns the theme used for rendering.
func (s *TerminalSurface) Theme() *services.Theme {
	return s.theme
}
