// Package render styles console output: errors with their suggestions,
// completion candidate lists, the prompt, and markdown help.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"cmdconsole/internal/config"
	"cmdconsole/pkg/cmdtypes"
	"cmdconsole/pkg/namespace"
)

// DefaultWidth is used for wrapping when the terminal width is unknown.
const DefaultWidth = 80

// Renderer formats text for one output stream.
type Renderer struct {
	lg             *lipgloss.Renderer
	glamourStyle   string
	width          int
	maxSuggestions int

	errorStyle lipgloss.Style
	kindStyle  lipgloss.Style
	hintStyle  lipgloss.Style
	dirStyle   lipgloss.Style
	cmdStyle   lipgloss.Style
	pathStyle  lipgloss.Style
}

// Options configures a Renderer.
type Options struct {
	// Color is config.ColorAuto, ColorAlways or ColorNever.
	Color string
	// Width wraps markdown and suggestion columns; zero means DefaultWidth.
	Width int
	// MaxSuggestions caps listed suggestions; zero lists them all.
	MaxSuggestions int
}

// New returns a renderer writing escape sequences suitable for w.
func New(w io.Writer, opts Options) *Renderer {
	lg := lipgloss.NewRenderer(w)
	style := "auto"
	switch opts.Color {
	case config.ColorNever:
		lg.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		if lg.ColorProfile() == termenv.Ascii {
			lg.SetColorProfile(termenv.ANSI256)
		}
		style = "dark"
	}
	if lg.ColorProfile() == termenv.Ascii {
		style = "notty"
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	return &Renderer{
		lg:             lg,
		glamourStyle:   style,
		width:          width,
		maxSuggestions: opts.MaxSuggestions,
		errorStyle:     lg.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		kindStyle:      lg.NewStyle().Foreground(lipgloss.Color("214")),
		hintStyle:      lg.NewStyle().Faint(true),
		dirStyle:       lg.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		cmdStyle:       lg.NewStyle().Foreground(lipgloss.Color("46")),
		pathStyle:      lg.NewStyle().Foreground(lipgloss.Color("51")),
	}
}

// Colored reports whether output carries color escapes.
func (r *Renderer) Colored() bool {
	return r.lg.ColorProfile() != termenv.Ascii
}

// Prompt renders the working directory followed by prompt.
func (r *Renderer) Prompt(cwd cmdtypes.Path, prompt string) string {
	return r.pathStyle.Render(cwd.String()) + " " + prompt
}

// Error renders err on one line, followed by a "did you mean" line when the
// error carries suggestions.
func (r *Renderer) Error(err error) string {
	var ae *cmdtypes.AssistError
	if !errors.As(err, &ae) {
		label := "error"
		if k := cmdtypes.KindOf(err); k != 0 {
			label = k.String()
		}
		return r.errorStyle.Render(label+":") + " " + err.Error()
	}
	line := r.errorStyle.Render("error:") + " " + ae.Message + " " + r.kindStyle.Render("["+ae.Kind.String()+"]")
	if len(ae.Suggestions) == 0 {
		return line
	}
	return line + "\n" + r.hintStyle.Render("did you mean: ") + r.List(ae.Suggestions)
}

// List joins words with two spaces, truncating to the suggestion cap.
func (r *Renderer) List(words []string) string {
	shown, more := r.cap(words)
	s := strings.Join(shown, "  ")
	if more > 0 {
		s += r.hintStyle.Render(fmt.Sprintf("  (+%d more)", more))
	}
	return s
}

// Columns lays words out in as many columns as fit the width. Width is
// measured on the visible text so styled words line up.
func (r *Renderer) Columns(words []string) string {
	shown, more := r.cap(words)
	if len(shown) == 0 {
		return ""
	}
	colWidth := 0
	for _, w := range shown {
		colWidth = max(colWidth, ansi.StringWidth(w))
	}
	colWidth += 2
	perRow := max(1, r.width/colWidth)

	var b strings.Builder
	for i, w := range shown {
		b.WriteString(w)
		last := i == len(shown)-1
		switch {
		case last:
		case (i+1)%perRow == 0:
			b.WriteByte('\n')
		default:
			b.WriteString(strings.Repeat(" ", colWidth-ansi.StringWidth(w)))
		}
	}
	if more > 0 {
		b.WriteString("\n" + r.hintStyle.Render(fmt.Sprintf("(+%d more)", more)))
	}
	return b.String()
}

// Entries renders directory entries for listing: directories styled and
// suffixed with the delimiter, commands styled plainly.
func (r *Renderer) Entries(entries []namespace.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e.IsDirectory() {
			out[i] = r.dirStyle.Render(e.Name() + cmdtypes.Delimiter)
		} else {
			out[i] = r.cmdStyle.Render(e.Name())
		}
	}
	return out
}

// Markdown renders md for the terminal.
func (r *Renderer) Markdown(md string) (string, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(r.width),
		glamour.WithColorProfile(r.lg.ColorProfile()),
	}
	if r.glamourStyle == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.glamourStyle))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// Plain strips escape sequences from s.
func Plain(s string) string {
	return ansi.Strip(s)
}

func (r *Renderer) cap(words []string) ([]string, int) {
	if r.maxSuggestions > 0 && len(words) > r.maxSuggestions {
		return words[:r.maxSuggestions], len(words) - r.maxSuggestions
	}
	return words, 0
}
