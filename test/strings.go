package test

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Stripped drops escape sequences and carriage returns, then trims every
// line and the text as a whole so rendered views compare by content only.
func Stripped(s string) string {
	var b strings.Builder
	for i, line := range strings.Split(ansi.Strip(s), "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimSpace(strings.TrimRight(line, "\r")))
	}
	return strings.TrimSpace(b.String())
}
