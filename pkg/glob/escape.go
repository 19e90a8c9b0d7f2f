package glob

import "strings"

// The magic characters wrap into single-member character classes, which
// both the compiler and the brace codec read back as literals. `]` and `}`
// have no meaning on their own and are left alone.
var (
	escaper = strings.NewReplacer(
		"*", "[*]",
		"?", "[?]",
		"[", "[[]",
		"{", "[{]",
	)
	unescaper = strings.NewReplacer(
		"[*]", "*",
		"[?]", "?",
		"[[]", "[",
		"[{]", "{",
	)
	braceEscaper = strings.NewReplacer("{", "[{]")
)

// Escape neutralizes every glob construct in the path so it matches itself
// literally.
func Escape(path string) string {
	return escaper.Replace(path)
}

// Unescape reverses Escape.
func Unescape(path string) string {
	return unescaper.Replace(path)
}

// EscapeBrace neutralizes only brace groups, leaving `*`, `?` and `[...]`
// live. Useful when a path produced by Globlize must travel through the
// codec once more without re-expanding.
func EscapeBrace(path string) string {
	return braceEscaper.Replace(path)
}
