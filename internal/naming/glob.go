package naming

import (
	"regexp"
	"strings"
	"sync"
)

var globCache sync.Map // pattern -> *regexp.Regexp, nil for invalid patterns

var classEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `^`, `\^`)

// Glob reports whether s matches the shell-style pattern as a whole.
// '*' matches any run of characters (including '/'), '?' any single
// character, and "[...]" a character class, negated with a leading '!'.
// An unterminated '[' matches itself.
func Glob(pattern, s string) bool {
	re := compileGlob(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(s)
}

func compileGlob(pattern string) *regexp.Regexp {
	if v, ok := globCache.Load(pattern); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile(TranslateGlob(pattern))
	if err != nil {
		re = nil
	}
	globCache.Store(pattern, re)
	return re
}

// TranslateGlob converts a shell-style pattern to an anchored regular
// expression.
func TranslateGlob(pattern string) string {
	p := []rune(pattern)
	n := len(p)
	var b strings.Builder
	b.WriteString(`^(?s:`)
	for i := 0; i < n; {
		c := p[i]
		i++
		switch c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i
			if j < n && p[j] == '!' {
				j++
			}
			if j < n && p[j] == ']' {
				j++
			}
			for j < n && p[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			class := string(p[i:j])
			i = j + 1
			b.WriteByte('[')
			if class[0] == '!' {
				b.WriteByte('^')
				class = class[1:]
			}
			b.WriteString(classEscaper.Replace(class))
			b.WriteByte(']')
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`)$`)
	return b.String()
}
