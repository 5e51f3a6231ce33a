// Package markdown renders the restricted markdown dialect used in analysis
// summaries: **bold** emphasis and newline line breaks. Everything else is
// treated as literal text.
package markdown

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Span is a run of text with uniform emphasis.
type Span struct {
	Text string
	Bold bool
}

// Line is one display line.
type Line []Span

// boldPattern matches the shortest **...** run. Unpaired markers stay literal.
var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Parse splits src into lines of spans. Terminal escape sequences and control
// characters are removed first so server text cannot drive the terminal.
func Parse(src string) []Line {
	src = Sanitize(src)
	if src == "" {
		return nil
	}

	rawLines := strings.Split(src, "\n")
	lines := make([]Line, 0, len(rawLines))
	for _, raw := range rawLines {
		lines = append(lines, parseLine(raw))
	}
	return lines
}

func parseLine(raw string) Line {
	var line Line
	last := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(raw, -1) {
		if m[0] > last {
			line = append(line, Span{Text: raw[last:m[0]]})
		}
		line = append(line, Span{Text: raw[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(raw) {
		line = append(line, Span{Text: raw[last:]})
	}
	return line
}

// Render converts src to display text, passing bold spans through bold.
// A nil bold leaves bold text unstyled.
func Render(src string, bold func(string) string) string {
	lines := Parse(src)
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, span := range line {
			if span.Bold && bold != nil {
				b.WriteString(bold(span.Text))
				continue
			}
			b.WriteString(span.Text)
		}
	}
	return b.String()
}

// Plain renders src with emphasis markers removed.
func Plain(src string) string {
	return Render(src, nil)
}

// Sanitize strips ANSI escape sequences and control characters other than
// newline and tab, and normalizes CRLF line endings.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
