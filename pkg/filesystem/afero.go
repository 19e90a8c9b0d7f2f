package filesystem

import (
	"context"
	"fmt"
	"iter"
	"os"

	"github.com/spf13/afero"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/registry"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// aferoFS implements types.FileSystem over any afero.Fs, so tests and
// embedders can run the whole stack against an in-memory tree.
type aferoFS struct {
	scheme string
	fs     afero.Fs
}

// NewAfero wraps an afero filesystem as a backend for the given scheme
func NewAfero(scheme string, fs afero.Fs) types.FileSystem {
	return &aferoFS{scheme: scheme, fs: fs}
}

// memFs backs the process-wide mem:// scheme
var memFs = afero.NewMemMapFs()

func init() {
	err := registry.RegisterFileSystem("mem", func(profile string) (types.FileSystem, error) {
		return NewAfero("mem", memFs), nil
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register mem filesystem: %v", err))
	}
}

func (a *aferoFS) Scheme() string {
	return a.scheme
}

func (a *aferoFS) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := afero.Exists(a.fs, localPath(path))
	if err != nil {
		return false, nil
	}
	return ok, nil
}

func (a *aferoFS) IsDir(ctx context.Context, path string) (bool, error) {
	info, err := a.fs.Stat(localPath(path))
	if err != nil {
		return false, nil
	}
	return info.IsDir(), nil
}

func (a *aferoFS) IsFile(ctx context.Context, path string) (bool, error) {
	info, err := a.fs.Stat(localPath(path))
	if err != nil {
		return false, nil
	}
	return !info.IsDir(), nil
}

func (a *aferoFS) Stat(ctx context.Context, path string) (types.StatResult, error) {
	p := localPath(path)
	info, err := a.fs.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return types.StatResult{}, errors.Wrapf(err, errors.ErrNotFound, "no such file or directory: %s", path).
				WithDetail("path", path)
		}
		return types.StatResult{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s", path).
			WithDetail("path", path)
	}
	stat := statFromInfo(info)
	// Lstat is only available on some afero filesystems; MemMapFs has no
	// symlinks at all.
	if lstater, ok := a.fs.(afero.Lstater); ok {
		if link, called, lerr := lstater.LstatIfPossible(p); lerr == nil && called && link.Mode()&os.ModeSymlink != 0 {
			stat.IsLink = true
		}
	}
	return stat, nil
}

func (a *aferoFS) ScanDir(ctx context.Context, dir string) iter.Seq2[types.Entry, error] {
	return func(yield func(types.Entry, error) bool) {
		infos, err := afero.ReadDir(a.fs, localPath(dir))
		if err != nil {
			yield(types.Entry{}, a.translateError(err, dir))
			return
		}
		for _, info := range infos {
			if ctx.Err() != nil {
				yield(types.Entry{}, ctx.Err())
				return
			}
			entry := types.Entry{
				Name: info.Name(),
				Path: joinEntryPath(dir, info.Name()),
				Stat: statFromInfo(info),
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (a *aferoFS) Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error) {
	return GlobAll(ctx, a, pattern, opts...)
}

func (a *aferoFS) IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	return IGlobAll(ctx, a, pattern, opts...)
}

func (a *aferoFS) translateError(err error, path string) error {
	if os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrNotFound, "no such directory: %s", path).
			WithDetail("path", path)
	}
	if info, serr := a.fs.Stat(localPath(path)); serr == nil && !info.IsDir() {
		return errors.Wrapf(err, errors.ErrNotADirectory, "not a directory: %s", path).
			WithDetail("path", path)
	}
	return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", path).
		WithDetail("path", path)
}
