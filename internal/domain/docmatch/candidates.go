// Package docmatch holds the pure heuristics that resolve a clerk-typed
// receipt number (possibly prefixed, e.g. "FS246") to the number of a
// previously uploaded source document (e.g. "246"). The same candidate
// expansion is used when opening a draft and when claiming the document at
// recording time; it lives here so both call sites share one tested
// function instead of inlined string manipulation.
package docmatch

import (
	"regexp"
	"strings"
)

var prefixedNumber = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// Candidates expands a clerk-typed receipt number into the ordered list of
// document numbers to try: the trimmed original, its upper and lower case
// forms, and, when the number is letters-then-digits, the digits alone.
// Numbers that do not match the prefix pattern yield only the original.
func Candidates(receiptNumber string) []string {
	n := strings.TrimSpace(receiptNumber)
	m := prefixedNumber.FindStringSubmatch(n)
	if m == nil {
		return []string{n}
	}
	return []string{n, strings.ToUpper(n), strings.ToLower(n), m[2]}
}
