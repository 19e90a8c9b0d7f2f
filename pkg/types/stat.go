package types

import "time"

// StatResult holds the metadata a backend reports for one path
type StatResult struct {
	// Size is the object size in bytes
	Size int64

	// CreateTime is the creation time, zero when the backend does not track it
	CreateTime time.Time

	// ModifyTime is the last modification time
	ModifyTime time.Time

	// IsDir reports whether the path is a directory
	IsDir bool

	// IsLink reports whether the path is a symbolic link
	IsLink bool
}

// IsFile reports whether the path is a file. A symbolic link counts as a
// file even when its target is a directory, matching lstat semantics.
func (s StatResult) IsFile() bool {
	return !s.IsDir || s.IsLink
}
