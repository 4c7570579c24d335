// Package util provides shared string helpers.
package util

import "strings"

// Preview renders s on one line for logs and status output: runs of
// whitespace collapse to a single space and the result is cut to at most
// maxRunes code points, with "..." appended when cut. maxRunes <= 0 disables
// the cut.
func Preview(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxRunes <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
