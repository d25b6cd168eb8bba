// Package mcq runs the multiple-choice practice flow: a generated batch of
// questions answered one at a time, each graded by the backend, with a
// per-skill accuracy report at the end.
package mcq

import (
	"fmt"
	"strings"
)

// Option is one structured choice: a letter the backend accepts on submit
// and the display text.
type Option struct {
	Letter string
	Text   string
}

// ParseOptions turns raw server option strings into letter/text pairs.
// Servers that pre-label options ("A) ...", "B. ...", "c: ...") keep their
// labels; unlabeled options are lettered by position. This is a
// compatibility shim for backends that don't return structured pairs.
func ParseOptions(raw []string) []Option {
	opts := make([]Option, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if letter, text, ok := splitLabel(s); ok {
			opts = append(opts, Option{Letter: letter, Text: text})
			continue
		}
		opts = append(opts, Option{Letter: indexLetter(i), Text: s})
	}
	return opts
}

// splitLabel detects a leading single-letter label followed by ")", "." or
// ":" and a space or end of string.
func splitLabel(s string) (letter, text string, ok bool) {
	if len(s) < 2 {
		return "", "", false
	}
	c := s[0]
	if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
		return "", "", false
	}
	sep := s[1]
	if sep != ')' && sep != '.' && sep != ':' {
		return "", "", false
	}
	rest := s[2:]
	if rest != "" && rest[0] != ' ' {
		return "", "", false
	}
	return strings.ToUpper(string(c)), strings.TrimSpace(rest), true
}

func indexLetter(i int) string {
	return fmt.Sprintf("%c", 'A'+i%26)
}
