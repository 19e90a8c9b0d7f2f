// Package uri splits storage URIs into scheme, profile and path.
//
// A URI like s3+dev://bucket/key carries an optional profile after the
// scheme; bare paths belong to the implicit "file" scheme.
package uri

import "strings"

// DefaultScheme is the scheme assumed for paths without a "://" marker.
const DefaultScheme = "file"

const separator = "://"

// Split breaks a URI into its scheme, scheme-local path and profile.
//
//	Split("/tmp/path")            = ("file", "/tmp/path", "")
//	Split("s3://bucket/key")      = ("s3", "bucket/key", "")
//	Split("s3+dev://bucket/key")  = ("s3", "bucket/key", "dev")
func Split(path string) (scheme, rest, profile string) {
	scheme, rest, found := strings.Cut(path, separator)
	if !found {
		return DefaultScheme, path, ""
	}
	scheme, profile, _ = strings.Cut(scheme, "+")
	return scheme, rest, profile
}

// SplitPrefix cuts the literal scheme prefix, profile included, off a path.
// Paths without one return an empty prefix.
//
//	SplitPrefix("s3+dev://bucket/key") = ("s3+dev://", "bucket/key")
//	SplitPrefix("/tmp/path")           = ("", "/tmp/path")
func SplitPrefix(path string) (prefix, rest string) {
	head, tail, found := strings.Cut(path, separator)
	if !found {
		return "", path
	}
	return head + separator, tail
}

// Join is the inverse of Split. The file scheme and the empty scheme render
// as a bare path.
func Join(scheme, profile, rest string) string {
	if scheme == "" || scheme == DefaultScheme {
		return rest
	}
	if profile != "" {
		scheme += "+" + profile
	}
	return scheme + separator + rest
}

// IsScheme reports whether the path belongs to the scheme, whatever its
// profile. Bare paths belong to the file scheme.
func IsScheme(path, scheme string) bool {
	s, _, _ := Split(path)
	return s == scheme
}
