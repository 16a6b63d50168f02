package diagnostics

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	kindStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	posStyle    = lipgloss.NewStyle().Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	caretStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func Render(diag Diag) string {
	var b strings.Builder
	b.WriteString(kindStyle.Render(diag.Kind.String()))
	b.WriteString(": ")
	if diag.Pos.Filename != "" {
		b.WriteString(posStyle.Render(diag.Pos.String()))
		b.WriteString(": ")
	}
	b.WriteString(diag.Message)
	if diag.Snippet != "" {
		b.WriteString("\n")
		b.WriteString(diag.Snippet)
	}
	return b.String()
}

// Snippet renders a caret-annotated excerpt around line (1-based),
// pointing at column. It returns "" when the position falls outside
// the source.
func Snippet(src []byte, line, column int) string {
	lines := strings.Split(string(src), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	first := line - 1
	if first < 1 {
		first = 1
	}
	last := line + 1
	if last > len(lines) {
		last = len(lines)
	}
	width := len(fmt.Sprintf("%d", last))

	var b strings.Builder
	for current := first; current <= last; current++ {
		text := lines[current-1]
		gutter := fmt.Sprintf("%*d | ", width, current)
		b.WriteString(gutterStyle.Render(gutter))
		b.WriteString(text)
		b.WriteString("\n")
		if current == line {
			b.WriteString(gutterStyle.Render(fmt.Sprintf("%*s | ", width, "")))
			b.WriteString(caretPad(text, column))
			b.WriteString(caretStyle.Render("^"))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// caretPad builds the whitespace before the caret, keeping tabs so
// the caret lines up with the excerpt above it.
func caretPad(text string, column int) string {
	var pad strings.Builder
	count := 0
	for _, r := range text {
		if count >= column-1 {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteByte(' ')
		}
		count++
	}
	for count < column-1 {
		pad.WriteByte(' ')
		count++
	}
	return pad.String()
}
