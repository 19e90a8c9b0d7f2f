package glob

import "strings"

// Ungloblize expands every unescaped `{...}` group in the pattern into its
// alternatives and returns the cartesian product, leftmost group varying
// slowest. Patterns without groups expand to themselves. The escaped-brace
// marker `[{]` never opens a group and survives verbatim in every result;
// an empty `{}` is literal. Group bodies split on top-level commas, so
// nested groups expand on later passes.
func Ungloblize(pattern string) []string {
	expanded := []string{pattern}
	for i := 0; i < len(expanded); {
		alts, ok := expandFirstGroup(expanded[i])
		if !ok {
			i++
			continue
		}
		next := make([]string, 0, len(expanded)+len(alts)-1)
		next = append(next, expanded[:i]...)
		next = append(next, alts...)
		next = append(next, expanded[i+1:]...)
		expanded = next
	}
	return expanded
}

// Globlize compacts a list of paths into one brace pattern, the inverse
// direction of Ungloblize. The longest shared prefix is character-level;
// the shared suffix is computed on the prefix-stripped remainders and cut
// forward to its first separator or dot, so it always starts at a path or
// extension boundary. Commas inside the input paths merge into group
// separators and will not round-trip.
func Globlize(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	if len(paths) == 1 {
		return paths[0]
	}
	prefix := commonPrefix(paths)
	rest := make([]string, len(paths))
	allSame := true
	for i, path := range paths {
		rest[i] = path[len(prefix):]
		if rest[i] != "" {
			allSame = false
		}
	}
	if allSame {
		return paths[0]
	}
	suffix := commonSuffix(rest)
	if k := strings.IndexAny(suffix, "/."); k > 0 {
		suffix = suffix[k:]
	} else if k < 0 {
		suffix = ""
	}
	middles := make([]string, len(rest))
	for i, r := range rest {
		middles[i] = r[:len(r)-len(suffix)]
	}
	return prefix + "{" + strings.Join(middles, ",") + "}" + suffix
}

// expandFirstGroup expands the leftmost complete group of the pattern.
// ok is false when no expandable group exists.
func expandFirstGroup(pattern string) (alts []string, ok bool) {
	n := len(pattern)
	for i := 0; i < n; i++ {
		if pattern[i] != '{' {
			continue
		}
		if escapedBraceAt(pattern, i) {
			i++
			continue
		}
		body, end, found := matchGroup(pattern, i)
		if !found {
			continue
		}
		if body == "" {
			i = end
			continue
		}
		words := splitTopLevel(body)
		prefix, suffix := pattern[:i], pattern[end+1:]
		alts = make([]string, len(words))
		for k, word := range words {
			alts[k] = prefix + word + suffix
		}
		return alts, true
	}
	return nil, false
}

// matchGroup finds the brace that closes the group opened at open, nesting
// aware, and returns the body between them.
func matchGroup(pattern string, open int) (body string, end int, ok bool) {
	depth := 0
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			if escapedBraceAt(pattern, i) {
				continue
			}
			depth++
		case '}':
			depth--
			if depth == 0 {
				return pattern[open+1 : i], i, true
			}
		}
	}
	return "", 0, false
}

// splitTopLevel splits a group body on the commas outside nested groups.
func splitTopLevel(body string) []string {
	var words []string
	depth, start := 0, 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '{':
			if escapedBraceAt(body, i) {
				continue
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				words = append(words, body[start:i])
				start = i + 1
			}
		}
	}
	return append(words, body[start:])
}

// escapedBraceAt reports whether the brace at i is the middle of a `[{]`
// escape marker.
func escapedBraceAt(s string, i int) bool {
	return i > 0 && s[i-1] == '[' && i+1 < len(s) && s[i+1] == ']'
}

func commonPrefix(paths []string) string {
	prefix := paths[0]
	for _, path := range paths[1:] {
		for len(prefix) > 0 && !strings.HasPrefix(path, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}

func commonSuffix(paths []string) string {
	suffix := paths[0]
	for _, path := range paths[1:] {
		for len(suffix) > 0 && !strings.HasSuffix(path, suffix) {
			suffix = suffix[:len(suffix)-1]
		}
	}
	return suffix
}
