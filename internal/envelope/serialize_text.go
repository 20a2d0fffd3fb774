package envelope

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the text serializer, in the same spirit as the teacher's
// pkg/tui/styles.go palette but scoped to this package's own small surface.
var (
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc3333")).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaa00"))
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5599dd"))
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// WriteText renders a human-readable rendition of the envelope: pretty
// JSON data on success; "Error [<code>]: <message>" plus details on
// failure; diagnostics, artifacts, and duration always follow.
func WriteText(w io.Writer, env Envelope) error {
	if env.Success {
		if env.Data != nil {
			buf, err := json.MarshalIndent(env.Data, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(buf))
		}
	} else if env.Error != nil {
		fmt.Fprintln(w, styleError.Render(fmt.Sprintf("Error [%s]: %s", env.Error.Code.Screaming(), env.Error.Message)))
		if env.Error.Details != nil {
			buf, err := json.MarshalIndent(env.Error.Details, "", "  ")
			if err == nil {
				fmt.Fprintln(w, string(buf))
			}
		}
	}

	for _, d := range env.Diagnostics {
		line := fmt.Sprintf("[%s] %s", d.Level, d.Message)
		if d.Source != "" {
			line = fmt.Sprintf("[%s:%s] %s", d.Level, d.Source, d.Message)
		}
		switch d.Level {
		case DiagError:
			fmt.Fprintln(w, styleError.Render(line))
		case DiagWarning:
			fmt.Fprintln(w, styleWarn.Render(line))
		default:
			fmt.Fprintln(w, styleInfo.Render(line))
		}
	}

	for _, a := range env.Artifacts {
		fmt.Fprintln(w, fmt.Sprintf("Saved %s: %s", a.Kind, a.Path))
	}

	if env.DurationMs != nil {
		fmt.Fprintln(w, styleMuted.Render(fmt.Sprintf("Completed in %dms", *env.DurationMs)))
	}

	return nil
}
