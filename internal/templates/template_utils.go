package templates

import (
	"fmt"
	"strings"

	"github.com/toyz/jenny/internal/models"
)

// Generics renders a lifetime list as `<'a, 'b>`, or nothing when empty
func Generics(lifetimes []string) string {
	if len(lifetimes) == 0 {
		return ""
	}
	return "<" + strings.Join(lifetimes, ", ") + ">"
}

// Statement renders a non-tail body step as a `let` statement
func Statement(step models.BodyStep) string {
	return fmt.Sprintf("let %s = %s;", step.Bind, step.Expr)
}

// tidy collapses runs of blank lines and ends the file with a single newline
func tidy(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}
