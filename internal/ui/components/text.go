package components

import "strings"

// Wrap breaks text at word boundaries to fit the given width.
func Wrap(text string, width int) string {
	if width < 10 {
		width = 10
	}
	var out strings.Builder
	line := 0
	for _, word := range strings.Fields(text) {
		if line > 0 && line+1+len(word) > width {
			out.WriteString("\n")
			line = 0
		} else if line > 0 {
			out.WriteString(" ")
			line++
		}
		out.WriteString(word)
		line += len(word)
	}
	return out.String()
}
