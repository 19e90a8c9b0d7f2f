package glob

import (
	"context"
	"iter"
)

// FileEntry is one name inside a scanned directory. IsDir steers traversal:
// only directory entries are descended into when pattern segments remain.
type FileEntry struct {
	Name  string
	IsDir bool
}

// FSFunc supplies the three capabilities the traversal engine needs. The
// engine never touches a filesystem directly, so any backend that can answer
// these three questions can be globbed: local disk, an object store, a test
// fixture.
//
// ScanDir yields the entries of dir as a finite lazy sequence. Scanning a
// path that does not exist, or is not a directory, must yield nothing rather
// than fail; that policy is what makes a glob against a missing base resolve
// to zero matches. A non-nil error yielded by the sequence aborts the
// traversal and is returned to the caller unmodified. Breaking out of the
// range releases the underlying listing.
type FSFunc struct {
	Exists  func(ctx context.Context, path string) (bool, error)
	IsDir   func(ctx context.Context, path string) (bool, error)
	ScanDir func(ctx context.Context, dir string) iter.Seq2[FileEntry, error]
}
