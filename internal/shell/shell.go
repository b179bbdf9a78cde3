// Package shell provides the interactive terminal surface of chatllm.
// It reads lines with readline, routes backslash commands and hands every
// other line to the chat service as a prompt.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"chatllm/internal/logger"
	"chatllm/internal/services"
	"chatllm/internal/session"
	"chatllm/internal/version"

	"github.com/charmbracelet/x/ansi"
	"github.com/chzyer/readline"
)

const (
	promptPrefix  = "chatllm"
	maxLabelWidth = 48
)

// LineReader reads input lines. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// Config wires a Shell to its collaborators.
type Config struct {
	Store     *session.Store
	Chat      *services.ChatService
	Models    *services.ModelService
	Clipboard *services.ClipboardService
	Surface   *TerminalSurface
	// Model is the initial model; empty selects the default model.
	Model string
}

// Shell is the terminal read-eval loop for one conversation store.
type Shell struct {
	store     *session.Store
	chat      *services.ChatService
	models    *services.ModelService
	clipboard *services.ClipboardService
	surface   *TerminalSurface
	model     string
}

// New creates a Shell from cfg.
func New(cfg Config) *Shell {
	model := cfg.Model
	if model == "" {
		model = cfg.Models.DefaultModel()
	}
	return &Shell{
		store:     cfg.Store,
		chat:      cfg.Chat,
		models:    cfg.Models,
		clipboard: cfg.Clipboard,
		surface:   cfg.Surface,
		model:     model,
	}
}

// NewReadline creates a readline instance with command completion and highlighting.
func NewReadline(stdin io.ReadCloser, stdout io.Writer, theme *services.Theme, models func() []string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptPrefix + "> ",
		AutoComplete:    NewCommandCompleter(models),
		Painter:         NewCommandHighlighter(theme),
		InterruptPrompt: "^C",
		EOFPrompt:       `\exit`,
		HistoryLimit:    500,
		Stdin:           stdin,
		Stdout:          stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create line reader: %w", err)
	}
	return rl, nil
}

// Model returns the model prompts are sent to.
func (sh *Shell) Model() string {
	return sh.model
}

// Banner prints the startup banner.
func (sh *Shell) Banner() {
	sh.surface.Println(fmt.Sprintf("%s - model %s (%s)", version.GetFormattedVersion(), sh.model, sh.models.Provider()))
	sh.surface.Println(`Type a message to chat, \help for commands or \exit to quit.`)
}

// Run reads lines until \exit, end of input or ctx is cancelled.
func (sh *Shell) Run(ctx context.Context, reader LineReader) error {
	defer reader.Close()

	for {
		if ctx.Err() != nil {
			return nil
		}
		reader.SetPrompt(sh.prompt())

		line, err := reader.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if sh.ProcessInput(ctx, line) {
			return nil
		}
	}
}

// ProcessInput handles one input line and reports whether the shell should exit.
func (sh *Shell) ProcessInput(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	if strings.HasPrefix(input, `\`) {
		name, args, _ := strings.Cut(strings.TrimPrefix(input, `\`), " ")
		cmd, ok := lookupCommand(name)
		if !ok {
			sh.surface.ShowError(fmt.Sprintf(`Unknown command \%s. Type \help for available commands`, name))
			return false
		}
		logger.Debug("Running shell command", "command", cmd.name)
		return cmd.run(sh, ctx, args)
	}

	result := sh.chat.HandlePrompt(ctx, sh.store, sh.surface, sh.model, input)
	if result.ResumedFrom != "" {
		logger.Debug("Resumed archived conversation", "label", result.ResumedFrom)
	}
	return false
}

func (sh *Shell) prompt() string {
	if !sh.store.IsViewingArchive() {
		return promptPrefix + "> "
	}
	return fmt.Sprintf("%s [%s]> ", promptPrefix, ansi.Truncate(sh.store.CurrentLabel(), maxLabelWidth, "…"))
}

func truncateAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = ansi.Truncate(l, maxLabelWidth, "…")
	}
	return out
}
