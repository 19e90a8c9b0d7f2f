// Package fnmatch compiles glob patterns into regular expressions and matches
// path names against them.
//
// The grammar follows POSIX shell globbing with two extensions: `**` matches
// across path separators, and `{a,b}` groups match any of their alternatives.
// Unlike path.Match, a pattern can never be malformed: unbalanced `[` or `{`
// fragments are taken literally, so every input compiles to some matcher.
//
// Paths are treated as POSIX byte strings. There is no platform case folding,
// which makes Match and MatchCase equivalent; both are kept so call sites can
// state their intent.
package fnmatch

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const cacheSize = 256

type patternKey struct {
	pattern       string
	caseSensitive bool
}

var compiled *lru.Cache[patternKey, *Pattern]

func init() {
	cache, err := lru.New[patternKey, *Pattern](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("failed to create pattern cache: %v", err))
	}
	compiled = cache
}

// Pattern is a compiled glob pattern.
type Pattern struct {
	re *regexp.Regexp
}

// Match reports whether the whole name matches the pattern.
func (p *Pattern) Match(name string) bool {
	return p.re.MatchString(name)
}

// String returns the regular expression source the pattern compiled to.
func (p *Pattern) String() string {
	return p.re.String()
}

// Translate converts a glob pattern into the source of an anchored regular
// expression. It never fails: fragments the grammar cannot parse, such as an
// unterminated `[` class or `{` group, are emitted as literal text.
//
// Token mapping:
//
//	*        [^/]*      any run of non-separator characters
//	**       .*         any run of characters, crossing separators
//	?        [^/]       exactly one non-separator character
//	[seq]    [seq]      character class; [!seq] negates, a leading ^ is literal
//	{a,b}    (a|b)      alternatives, only when the body contains a comma
//
// The result is wrapped in \A(?s:...)\z so the match always covers the whole
// name and `.` crosses newlines.
func Translate(pattern string) string {
	var res strings.Builder
	n := len(pattern)
	for i := 0; i < n; {
		c := pattern[i]
		i++
		switch c {
		case '*':
			if i < n && pattern[i] == '*' {
				i++
				res.WriteString(".*")
			} else {
				res.WriteString("[^/]*")
			}
		case '?':
			res.WriteString("[^/]")
		case '[':
			j := i
			if j < n && pattern[j] == '!' {
				j++
			}
			if j < n && pattern[j] == ']' {
				j++
			}
			for j < n && pattern[j] != ']' {
				j++
			}
			if j >= n {
				res.WriteString(`\[`)
			} else {
				stuff := strings.ReplaceAll(pattern[i:j], `\`, `\\`)
				i = j + 1
				if stuff[0] == '!' {
					stuff = "^" + stuff[1:]
				} else if stuff[0] == '^' {
					stuff = `\` + stuff
				}
				// A ] can only survive the scan in first position (or right
				// after the negation marker) and RE2 wants it escaped there.
				stuff = strings.Replace(stuff, "]", `\]`, 1)
				res.WriteString("[")
				res.WriteString(stuff)
				res.WriteString("]")
			}
		case '{':
			j := i
			for j < n && pattern[j] != '}' {
				j++
			}
			if j >= n {
				res.WriteString(`\{`)
			} else {
				stuff := pattern[i:j]
				i = j + 1
				if strings.Contains(stuff, ",") {
					words := strings.Split(stuff, ",")
					for k, word := range words {
						words[k] = regexp.QuoteMeta(word)
					}
					res.WriteString("(")
					res.WriteString(strings.Join(words, "|"))
					res.WriteString(")")
				} else {
					res.WriteString(regexp.QuoteMeta("{" + stuff + "}"))
				}
			}
		default:
			res.WriteString(regexp.QuoteMeta(pattern[i-1 : i]))
		}
	}
	return `\A(?s:` + res.String() + `)\z`
}

// Compile builds a case-sensitive matcher for the pattern. It never fails.
func Compile(pattern string) *Pattern {
	return CompileCase(pattern, true)
}

// CompileCase builds a matcher for the pattern, case-insensitive when
// caseSensitive is false. Compiled matchers are cached, so repeated
// compilation of the same pattern is cheap. It never fails: on the rare
// translation that the regexp engine rejects, such as a reversed class range
// like [z-a], the whole pattern is matched literally instead.
func CompileCase(pattern string, caseSensitive bool) *Pattern {
	key := patternKey{pattern: pattern, caseSensitive: caseSensitive}
	if p, ok := compiled.Get(key); ok {
		return p
	}
	src := Translate(pattern)
	if !caseSensitive {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		src = `\A` + regexp.QuoteMeta(pattern) + `\z`
		if !caseSensitive {
			src = "(?i)" + src
		}
		re = regexp.MustCompile(src)
	}
	p := &Pattern{re: re}
	compiled.Add(key, p)
	return p
}

// Match reports whether name matches the glob pattern. Paths are POSIX byte
// strings, so this is the same as MatchCase.
func Match(name, pattern string) bool {
	return MatchCase(name, pattern)
}

// MatchCase reports whether name matches the glob pattern, case-sensitively.
func MatchCase(name, pattern string) bool {
	return Compile(pattern).Match(name)
}

// Filter returns the subset of names matching the pattern, compiling the
// pattern once. Order is preserved.
func Filter(names []string, pattern string) []string {
	p := Compile(pattern)
	matched := make([]string, 0, len(names))
	for _, name := range names {
		if p.Match(name) {
			matched = append(matched, name)
		}
	}
	return matched
}
