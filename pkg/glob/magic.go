package glob

import (
	"strings"

	"github.com/megvii-research/go-megfile/pkg/uri"
)

const magicChars = "*?[{"

// HasMagic reports whether the path contains any glob construct. Brace
// groups count: `{a,b}` is magic even though the compiler alone could treat
// it as alternation, because expansion happens before traversal.
func HasMagic(path string) bool {
	return strings.ContainsAny(path, magicChars)
}

// HasMagicIgnoreBrace reports whether the path contains a glob construct
// other than a brace group. Characters inside a complete `{...}` group are
// not inspected, so `{a,b}.txt` is brace-only while `{a,b}/*.txt` is not.
// Callers use this to tell patterns needing a real traversal from patterns
// that collapse to a fixed path list after brace expansion.
func HasMagicIgnoreBrace(path string) bool {
	n := len(path)
	for i := 0; i < n; {
		switch path[i] {
		case '*', '?', '[':
			return true
		case '{':
			if j := strings.IndexByte(path[i+1:], '}'); j >= 0 {
				i += j + 2
				continue
			}
			i++
		default:
			i++
		}
	}
	return false
}

// GetNonGlobDir returns the longest leading run of separator-delimited
// segments holding no magic character. A scheme prefix is always part of
// that run. A magic-free pattern comes back unchanged; a pattern with no
// literal lead resolves to "." (or "/" when rooted, or the scheme prefix
// alone for scheme URIs).
func GetNonGlobDir(pattern string) string {
	if !HasMagic(pattern) {
		return pattern
	}
	base, _ := splitPattern(pattern)
	if base == "" {
		return "."
	}
	return base
}

// splitPattern separates the engine-internal literal base from the magic
// tail. The base is "" for relative patterns with no literal lead, so that
// joined results never grow a "./" prefix.
func splitPattern(pattern string) (base string, segments []string) {
	prefix, rest := uri.SplitPrefix(pattern)
	parts := strings.Split(rest, "/")
	lead := 0
	for lead < len(parts) && !HasMagic(parts[lead]) {
		lead++
	}
	base = prefix + strings.Join(parts[:lead], "/")
	if base == "" && lead > 0 && parts[0] == "" {
		// Rooted pattern whose first magic segment sits right under /.
		base = "/"
	}
	return base, parts[lead:]
}

// joinPath joins a candidate base and an entry name without collapsing or
// cleaning anything; bases like "s3://" keep their trailing separator.
func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
