package megfile

import (
	"embed"
	"io/fs"
)

//go:embed topics
var topicsRaw embed.FS

// topicsSource returns the embedded help topics keyed by their base name
func topicsSource() fs.FS {
	sub, err := fs.Sub(topicsRaw, "topics")
	if err != nil {
		return nil
	}
	return sub
}
