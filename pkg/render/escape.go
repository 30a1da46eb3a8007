package render

import "strings"

// EscapePipes replaces every table delimiter with its escaped form so a cell
// cannot be read as extra columns. Backslashes directly before a pipe are
// doubled, so the pipe stays escaped whatever precedes it.
func EscapePipes(s string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	run := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			run++
			continue
		case '|':
			b.WriteString(strings.Repeat(`\`, 2*run+1))
		default:
			b.WriteString(strings.Repeat(`\`, run))
		}
		run = 0
		b.WriteByte(s[i])
	}
	b.WriteString(strings.Repeat(`\`, run))
	return b.String()
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// EscapeCell makes free text safe for a single table cell: delimiters are
// escaped and line breaks collapse to a space.
func EscapeCell(s string) string {
	return EscapePipes(newlineReplacer.Replace(s))
}

// codeFence returns a backtick fence long enough that no backtick run inside
// code can close it.
func codeFence(code string) string {
	n := longestRun(code) + 1
	if n < 3 {
		n = 3
	}
	return strings.Repeat("`", n)
}

// longestRun returns the length of the longest run of backticks in s.
func longestRun(s string) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != '`' {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}
