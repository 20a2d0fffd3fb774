// Package shell implements the interactive REPL entry path: a readline
// loop that parses a command name plus a JSON args blob per line, runs it
// through the same catalog the batch loop and CLI use, and renders
// page.read output as markdown — grounded on the teacher's
// cmd/devopsclaw/cmd_agent.go readline loop and pkg/tui's glamour/lipgloss
// rendering.
package shell

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"github.com/freitascorp/pwcli/internal/catalog"
	"github.com/freitascorp/pwcli/internal/command"
	"github.com/freitascorp/pwcli/internal/contextstore"
	"github.com/freitascorp/pwcli/internal/pwerr"
)

var (
	styleOK     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B8BB26"))
	styleErr    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FB4934"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	stylePrompt = "\033[38;2;135;206;235m❯\033[0m "
)

// Run starts the interactive shell, reading lines until EOF, Ctrl-D, or the
// "quit"/"exit" sentinel.
func Run(ec *command.ExecContext, store *contextstore.State, historyFile string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          stylePrompt,
		HistoryFile:     historyFile,
		HistoryLimit:    500,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	md, _ := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	ec.Mode = command.ModeOneShot

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println(styleDim.Render("bye"))
				return nil
			}
			fmt.Println(styleErr.Render(err.Error()))
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println(styleDim.Render("bye"))
			return nil
		}

		name, argsJSON := parseLine(input)
		id, ok := catalog.Lookup(name)
		if !ok {
			fmt.Println(styleErr.Render(fmt.Sprintf("unknown command: %s", name)))
			continue
		}

		outcome := catalog.Run(id, argsJSON, ec.HasCdp, ec)
		store.ApplyDelta(outcome.Delta)
		render(outcome, md)
	}
}

// parseLine splits "command {json args}" into a name and a raw JSON blob,
// tolerating a bare command name with no arguments.
func parseLine(input string) (string, json.RawMessage) {
	parts := strings.SplitN(input, " ", 2)
	if len(parts) == 1 {
		return parts[0], nil
	}
	rest := strings.TrimSpace(parts[1])
	if rest == "" {
		return parts[0], nil
	}
	if !strings.HasPrefix(rest, "{") {
		return parts[0], nil
	}
	return parts[0], json.RawMessage(rest)
}

func render(outcome command.Outcome, md *glamour.TermRenderer) {
	env := outcome.Envelope
	if !env.Success {
		msg := "command failed"
		if env.Error != nil {
			msg = fmt.Sprintf("[%s] %s", env.Error.Code, env.Error.Message)
		}
		fmt.Println(styleErr.Render(msg))
		return
	}

	if env.Command == "page.read" {
		if data, ok := env.Data.(map[string]any); ok {
			if format, _ := data["format"].(string); format == "markdown" {
				if content, ok := data["content"].(string); ok {
					renderMarkdown(md, content)
					return
				}
			}
		}
	}

	buf, err := json.MarshalIndent(env.Data, "", "  ")
	if err != nil {
		fmt.Println(styleErr.Render(pwerr.Wrap(pwerr.InternalError, err).Error()))
		return
	}
	fmt.Println(styleOK.Render(env.Command))
	fmt.Println(string(buf))
}

func renderMarkdown(md *glamour.TermRenderer, content string) {
	if md == nil {
		fmt.Println(content)
		return
	}
	out, err := md.Render(content)
	if err != nil {
		fmt.Println(content)
		return
	}
	fmt.Fprint(os.Stdout, out)
}
