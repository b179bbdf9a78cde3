package shell

import (
	"regexp"
	"sort"
	"strings"

	"chatllm/internal/services"

	"github.com/charmbracelet/lipgloss"
)

// CommandCompleter completes backslash commands and their model arguments.
// It implements readline.AutoCompleter.
type CommandCompleter struct {
	commands []string
	models   func() []string
}

// NewCommandCompleter creates a completer for the shell's command table.
func NewCommandCompleter(models func() []string) *CommandCompleter {
	names := make([]string, 0, len(commandTable))
	for _, c := range commandTable {
		names = append(names, `\`+c.name)
	}
	sort.Strings(names)
	return &CommandCompleter{commands: names, models: models}
}

// Do returns the completion suffixes for the word before pos.
func (c *CommandCompleter) Do(line []rune, pos int) (newLine [][]rune, offset int) {
	if pos > len(line) {
		pos = len(line)
	}
	input := string(line[:pos])

	var candidates []string
	var current string
	switch {
	case strings.HasPrefix(input, `\model `) && c.models != nil:
		current = strings.TrimPrefix(input, `\model `)
		candidates = c.models()
	case strings.HasPrefix(input, `\`) && !strings.Contains(input, " "):
		current = input
		candidates = c.commands
	default:
		return nil, 0
	}

	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, current) {
			newLine = append(newLine, []rune(strings.TrimPrefix(candidate, current)))
		}
	}
	return newLine, len([]rune(current))
}

var commandPrefix = regexp.MustCompile(`^(\\[a-zA-Z]+)(.*)$`)

// CommandHighlighter colors a leading backslash command while typing.
// It implements readline.Painter.
type CommandHighlighter struct {
	style lipgloss.Style
}

// NewCommandHighlighter creates a highlighter using the theme's highlight style.
func NewCommandHighlighter(theme *services.Theme) *CommandHighlighter {
	return &CommandHighlighter{style: theme.Highlight}
}

// Paint highlights known commands only.
func (h *CommandHighlighter) Paint(line []rune, _ int) []rune {
	if !services.IsColorSupported() {
		return line
	}
	matches := commandPrefix.FindStringSubmatch(string(line))
	if matches == nil {
		return line
	}
	if _, ok := lookupCommand(strings.TrimPrefix(matches[1], `\`)); !ok {
		return line
	}
	return []rune(h.style.Render(matches[1]) + matches[2])
}
