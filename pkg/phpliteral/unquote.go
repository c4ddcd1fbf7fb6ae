package phpliteral

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unquote decodes a raw PHP string literal token, quotes included.
// Single-quoted literals only know the \' and \\ escapes. Double-quoted
// literals without interpolation support \n \t \r \v \f \e \\ \$ \" and
// the octal, \xHH and \u{...} forms; unknown escapes are kept verbatim.
func Unquote(raw []byte) (string, error) {
	s := string(raw)
	if len(s) > 0 && (s[0] == 'b' || s[0] == 'B') {
		s = s[1:]
	}
	if len(s) < 2 || s[0] != s[len(s)-1] || (s[0] != '\'' && s[0] != '"') {
		return "", fmt.Errorf("malformed string literal %q", raw)
	}
	if s[0] == '\'' {
		return unquoteSingle(s[1 : len(s)-1]), nil
	}
	return unquoteDouble(s[1 : len(s)-1])
}

func unquoteSingle(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unquoteDouble(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		esc := s[i]
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'v':
			b.WriteByte('\v')
		case 'f':
			b.WriteByte('\f')
		case 'e':
			b.WriteByte(0x1b)
		case '\\', '$', '"':
			b.WriteByte(esc)
		case 'x':
			n := 0
			for n < 2 && i+1+n < len(s) && isHex(s[i+1+n]) {
				n++
			}
			if n == 0 {
				b.WriteString(`\x`)
				continue
			}
			v, _ := strconv.ParseUint(s[i+1:i+1+n], 16, 8)
			b.WriteByte(byte(v))
			i += n
		case 'u':
			if i+1 >= len(s) || s[i+1] != '{' {
				b.WriteString(`\u`)
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("invalid \\u{} escape in %q", s)
			}
			hex := s[i+2 : i+1+end]
			r, err := strconv.ParseUint(hex, 16, 32)
			if err != nil || hex == "" || r > utf8.MaxRune {
				return "", fmt.Errorf("invalid codepoint \\u{%s}", hex)
			}
			b.WriteRune(rune(r))
			i += 1 + end
		default:
			if esc >= '0' && esc <= '7' {
				n := 1
				for n < 3 && i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '7' {
					n++
				}
				v, _ := strconv.ParseUint(s[i:i+n], 8, 16)
				b.WriteByte(byte(v))
				i += n - 1
				continue
			}
			b.WriteByte('\\')
			b.WriteByte(esc)
		}
	}
	return b.String(), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
