package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/registry"
	"github.com/megvii-research/go-megfile/pkg/types"
	"github.com/megvii-research/go-megfile/pkg/uri"
)

// localFS implements types.FileSystem on the OS filesystem. It accepts both
// bare paths and file:// URIs; entry paths come back in the form the scan
// path used.
type localFS struct{}

// NewLocal creates the local disk backend
func NewLocal() types.FileSystem {
	return &localFS{}
}

func init() {
	err := registry.RegisterFileSystem("file", func(profile string) (types.FileSystem, error) {
		return NewLocal(), nil
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register local filesystem: %v", err))
	}
}

func (l *localFS) Scheme() string {
	return "file"
}

// localPath strips a file:// prefix when present
func localPath(path string) string {
	_, rest := uri.SplitPrefix(path)
	return rest
}

// Exists reports via lstat, so a dangling symlink still exists. Probe
// failures read as absent; only Stat itself reports errors.
func (l *localFS) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(localPath(path))
	return err == nil, nil
}

func (l *localFS) IsDir(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(localPath(path))
	if err != nil {
		return false, nil
	}
	return info.IsDir(), nil
}

func (l *localFS) IsFile(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(localPath(path))
	if err != nil {
		return false, nil
	}
	return info.Mode().IsRegular(), nil
}

func (l *localFS) Stat(ctx context.Context, path string) (types.StatResult, error) {
	p := localPath(path)
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return types.StatResult{}, errors.Wrapf(err, errors.ErrNotFound, "no such file or directory: %s", path).
				WithDetail("path", path)
		}
		return types.StatResult{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).
			WithDetail("path", path)
	}
	stat := statFromInfo(info)
	if link, lerr := os.Lstat(p); lerr == nil && link.Mode()&os.ModeSymlink != 0 {
		stat.IsLink = true
	}
	return stat, nil
}

func (l *localFS) ScanDir(ctx context.Context, dir string) iter.Seq2[types.Entry, error] {
	return func(yield func(types.Entry, error) bool) {
		entries, err := os.ReadDir(localPath(dir))
		if err != nil {
			yield(types.Entry{}, translateOSError(err, dir))
			return
		}
		for _, entry := range entries {
			if ctx.Err() != nil {
				yield(types.Entry{}, ctx.Err())
				return
			}
			if !yield(l.buildEntry(dir, entry), nil) {
				return
			}
		}
	}
}

// buildEntry stats one directory entry. Symlinks are resolved so that a
// link to a directory scans as a directory, with IsLink still set; a
// dangling link keeps its lstat result.
func (l *localFS) buildEntry(dir string, entry fs.DirEntry) types.Entry {
	path := joinEntryPath(dir, entry.Name())
	var stat types.StatResult
	if info, err := entry.Info(); err == nil {
		stat = statFromInfo(info)
		if info.Mode()&os.ModeSymlink != 0 {
			stat.IsLink = true
			if target, terr := os.Stat(localPath(path)); terr == nil {
				stat.Size = target.Size()
				stat.ModifyTime = target.ModTime()
				stat.IsDir = target.IsDir()
			}
		}
	}
	return types.Entry{Name: entry.Name(), Path: path, Stat: stat}
}

func (l *localFS) Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error) {
	return GlobAll(ctx, l, pattern, opts...)
}

func (l *localFS) IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	return IGlobAll(ctx, l, pattern, opts...)
}

func statFromInfo(info fs.FileInfo) types.StatResult {
	return types.StatResult{
		Size:       info.Size(),
		ModifyTime: info.ModTime(),
		IsDir:      info.IsDir(),
	}
}

func translateOSError(err error, path string) error {
	if os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrNotFound, "no such directory: %s", path).
			WithDetail("path", path)
	}
	if info, serr := os.Stat(localPath(path)); serr == nil && !info.IsDir() {
		return errors.Wrapf(err, errors.ErrNotADirectory, "not a directory: %s", path).
			WithDetail("path", path)
	}
	if os.IsPermission(err) {
		return errors.Wrapf(err, errors.ErrPermission, "permission denied: %s", path).
			WithDetail("path", path)
	}
	return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", path).
		WithDetail("path", path)
}
