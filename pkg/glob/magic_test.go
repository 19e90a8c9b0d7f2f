package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasMagic(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"star", "*.txt", true},
		{"question", "file?.txt", true},
		{"class", "[abc].txt", true},
		{"brace", "{a,b}.txt", true},
		{"plain file", "file.txt", false},
		{"plain path", "plain/path/file", false},
		{"empty", "", false},
		{"scheme uri", "s3://bucket/key", false},
		{"closing chars only", "a]b}c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasMagic(tt.path))
		})
	}
}

func TestHasMagicIgnoreBrace(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"brace only", "{a,b}.txt", false},
		{"brace plus star", "{a,b}/*.txt", true},
		{"question outside group", "file?.{py,txt}", true},
		{"star only", "*.txt", true},
		{"plain", "plain.txt", false},
		{"magic hidden inside group", "{a*,b}.txt", false},
		{"unclosed brace with star", "{unclosed*", true},
		{"escaped brace marker", "[{]a,b}.txt", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasMagicIgnoreBrace(tt.path))
		})
	}
}

func TestGetNonGlobDir(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected string
	}{
		{"no magic returns pattern", "/path/to/file.txt", "/path/to/file.txt"},
		{"magic in basename", "/path/to/*.txt", "/path/to"},
		{"magic in middle", "/path/*/file.txt", "/path"},
		{"bare wildcard", "*.txt", "."},
		{"star only", "*", "."},
		{"relative literal lead", "foo/bar/*.py", "foo/bar"},
		{"rooted first segment magic", "/*.txt", "/"},
		{"scheme uri", "s3://bucket/path/*.txt", "s3://bucket/path"},
		{"scheme uri deep magic", "s3://bucket/*/*.txt", "s3://bucket"},
		{"scheme uri magic bucket", "s3://*/key.txt", "s3://"},
		{"brace counts as magic", "/path/{a,b}/file.txt", "/path"},
		{"profile kept", "s3+dev://bucket/*.txt", "s3+dev://bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetNonGlobDir(tt.pattern))
		})
	}
}
