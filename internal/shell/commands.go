package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"chatllm/internal/session"
	"chatllm/pkg/chattypes"
)

// command is one backslash command of the shell.
type command struct {
	name        string
	usage       string
	description string
	// run returns true when the shell should exit.
	run func(sh *Shell, ctx context.Context, args string) bool
}

// commandTable lists the commands in help order.
var commandTable []command

func init() {
	commandTable = []command{
		{"new", `\new`, "Archive the current conversation and start a new one", (*Shell).cmdNew},
		{"history", `\history`, "List conversations", (*Shell).cmdHistory},
		{"select", `\select <n>`, "View conversation n from \\history; the next prompt resumes it", (*Shell).cmdSelect},
		{"model", `\model [n|name]`, "List models, or switch to model n", (*Shell).cmdModel},
		{"show", `\show`, "Show the conversation being viewed", (*Shell).cmdShow},
		{"thinking", `\thinking`, "Expand or collapse thinking panels in \\show", (*Shell).cmdThinking},
		{"copy", `\copy`, "Copy the last answer to the clipboard", (*Shell).cmdCopy},
		{"help", `\help`, "Show this help", (*Shell).cmdHelp},
		{"exit", `\exit`, "Quit", (*Shell).cmdExit},
	}
}

func lookupCommand(name string) (command, bool) {
	if name == "quit" {
		name = "exit"
	}
	for _, c := range commandTable {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (sh *Shell) cmdNew(_ context.Context, _ string) bool {
	label, archived := sh.store.StartNew()
	if archived {
		sh.surface.Println(fmt.Sprintf("Archived conversation %q. Started a new conversation.", label))
	} else {
		sh.surface.Println("Started a new conversation.")
	}
	return false
}

func (sh *Shell) cmdHistory(_ context.Context, _ string) bool {
	labels := sh.store.Labels()
	current := 0
	for i, label := range labels {
		if label == sh.store.CurrentLabel() {
			current = i
		}
	}
	sh.surface.Println(sh.surface.Theme().CreateNumberedList(truncateAll(labels), current).String())
	sh.surface.Println(`Use \select <n> to view a conversation.`)
	return false
}

func (sh *Shell) cmdSelect(_ context.Context, args string) bool {
	labels := sh.store.Labels()
	n, err := parseIndex(args, len(labels))
	if err != nil {
		sh.surface.ShowError(err.Error())
		return false
	}

	if err := sh.store.Select(labels[n-1]); err != nil {
		sh.surface.ShowError(err.Error())
		return false
	}
	sh.replay()
	return false
}

func (sh *Shell) cmdModel(_ context.Context, args string) bool {
	models := sh.models.Models()
	if strings.TrimSpace(args) == "" {
		current := -1
		for i, m := range models {
			if m == sh.model {
				current = i
			}
		}
		sh.surface.Println(sh.surface.Theme().CreateNumberedList(models, current).String())
		return false
	}

	model, err := sh.models.Resolve(args)
	if err != nil {
		sh.surface.ShowError(err.Error())
		return false
	}
	if model == sh.model {
		sh.surface.Println(fmt.Sprintf("Already using %s.", model))
		return false
	}

	sh.model = model
	notice := sh.store.NoteModelChange(model)
	if sh.store.IsViewingArchive() {
		sh.surface.Println(notice.Content.Text)
	} else {
		sh.surface.RenderMessage(notice)
	}
	return false
}

func (sh *Shell) cmdShow(_ context.Context, _ string) bool {
	sh.replay()
	return false
}

func (sh *Shell) cmdThinking(_ context.Context, _ string) bool {
	if sh.surface.ToggleThinking() {
		sh.surface.Println("Thinking panels expanded.")
	} else {
		sh.surface.Println("Thinking panels collapsed.")
	}
	return false
}

func (sh *Shell) cmdCopy(_ context.Context, _ string) bool {
	view := sh.store.View()
	for i := len(view) - 1; i >= 0; i-- {
		if view[i].Role != chattypes.RoleAssistant {
			continue
		}
		if sh.clipboard == nil {
			sh.surface.ShowError("Clipboard not available")
			return false
		}
		if err := sh.clipboard.Copy(view[i].Content.Outbound()); err != nil {
			sh.surface.ShowError(err.Error())
			return false
		}
		sh.surface.Println("Copied the last answer to the clipboard.")
		return false
	}
	sh.surface.ShowError("Nothing to copy yet")
	return false
}

func (sh *Shell) cmdHelp(_ context.Context, _ string) bool {
	var sb strings.Builder
	sb.WriteString("Type a message to chat. Commands:\n")
	for _, c := range commandTable {
		fmt.Fprintf(&sb, "  %-18s %s\n", c.usage, c.description)
	}
	sh.surface.Println(strings.TrimRight(sb.String(), "\n"))
	return false
}

func (sh *Shell) cmdExit(_ context.Context, _ string) bool {
	return true
}

// replay renders the conversation currently viewed.
func (sh *Shell) replay() {
	label := sh.store.CurrentLabel()
	view := sh.store.View()
	sh.surface.Println(sh.surface.Theme().Highlight.Render(label))
	if len(view) == 0 {
		sh.surface.Println("(empty)")
		return
	}
	for _, msg := range view {
		sh.surface.ReplayMessage(msg)
	}
	if label != session.ActiveLabel {
		sh.surface.Println("Viewing an archived conversation. Sending a prompt resumes it.")
	}
}

func parseIndex(args string, count int) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return 0, errors.New("missing conversation number")
	}
	n, err := strconv.Atoi(args)
	if err != nil {
		return 0, fmt.Errorf("invalid conversation number %q", args)
	}
	if n < 1 || n > count {
		return 0, fmt.Errorf("conversation number %d out of range 1-%d", n, count)
	}
	return n, nil
}
