// Package phpliteral encodes string lists as PHP array literals and reads
// them back out of list files and generated manifests.
package phpliteral

import (
	"strconv"
	"strings"
)

// Export renders values the way PHP's var_export renders a list array:
//
//	array (
//	  0 => 'a',
//	)
func Export(values []string) string {
	var b strings.Builder
	b.WriteString("array (\n")
	for i, v := range values {
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" => ")
		b.WriteString(Quote(v))
		b.WriteString(",\n")
	}
	b.WriteString(")")
	return b.String()
}

// Quote returns s as a single-quoted PHP string literal.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('\'')
	return b.String()
}
