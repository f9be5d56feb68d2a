package report

import "github.com/muesli/termenv"

// Verdict renders a pass/fail line for terminal output, a green check on
// success and a red cross on failure.
func Verdict(ok bool, text string) string {
	p := termenv.ColorProfile()
	if ok {
		return termenv.String("✔ " + text).Foreground(p.Color("#22c55e")).String()
	}
	return termenv.String("✘ " + text).Foreground(p.Color("#ef4444")).String()
}
