package types

import (
	"context"
	"iter"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
)

// FileSystem is the operation surface every storage backend implements.
// Backends register themselves by scheme (see the registry package) and the
// smart package dispatches whole-path operations to them.
type FileSystem interface {
	// Scheme returns the URI scheme this backend serves, for example "s3"
	Scheme() string

	// Exists reports whether path points to an existing file or directory
	Exists(ctx context.Context, path string) (bool, error)

	// IsDir reports whether path points to a directory
	IsDir(ctx context.Context, path string) (bool, error)

	// IsFile reports whether path points to a regular file
	IsFile(ctx context.Context, path string) (bool, error)

	// Stat returns the metadata for path
	Stat(ctx context.Context, path string) (StatResult, error)

	// ScanDir yields the entries of dir in the backend's listing order,
	// ascending by name for filesystem backends. Scanning a path that is
	// missing or not a directory yields a single error carrying
	// ErrNotFound or ErrNotADirectory.
	ScanDir(ctx context.Context, dir string) iter.Seq2[Entry, error]

	// Glob returns the paths matching pattern in traversal order
	Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error)

	// IGlob streams the paths matching pattern in traversal order
	IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error]
}

// CapabilityOf adapts a FileSystem to the three probe operations the
// traversal engine consumes. ScanDir is softened on the way through: the
// engine probes candidate directories that may not exist, so not-found and
// not-a-directory errors become empty listings instead of aborting the
// walk. Every other error passes through untouched.
func CapabilityOf(fs FileSystem) glob.FSFunc {
	return glob.FSFunc{
		Exists: fs.Exists,
		IsDir:  fs.IsDir,
		ScanDir: func(ctx context.Context, dir string) iter.Seq2[glob.FileEntry, error] {
			return func(yield func(glob.FileEntry, error) bool) {
				for entry, err := range fs.ScanDir(ctx, dir) {
					if err != nil {
						if isMissingDir(err) {
							return
						}
						yield(glob.FileEntry{}, err)
						return
					}
					if !yield(glob.FileEntry{Name: entry.Name, IsDir: entry.IsDir()}, nil) {
						return
					}
				}
			}
		},
	}
}

func isMissingDir(err error) bool {
	return errors.IsErrorCode(err, errors.ErrNotFound) ||
		errors.IsErrorCode(err, errors.ErrNotADirectory) ||
		errors.IsErrorCode(err, errors.ErrBucketNotFound)
}
