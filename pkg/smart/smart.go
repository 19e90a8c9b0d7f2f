// Package smart routes whole-URI operations to the backend registered for
// each URI's scheme, so callers work with one surface across local disk,
// object stores and anything else the registry knows.
//
// Globbing is scheme-aware: a brace group may fan out across schemes, as in
// {s3://logs,/var/log}/**/*.gz, and every scheme traverses its own backend.
package smart

import (
	"context"
	"iter"
	"path"
	"sync"

	"github.com/megvii-research/go-megfile/pkg/config"
	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/logging"
	"github.com/megvii-research/go-megfile/pkg/registry"
	"github.com/megvii-research/go-megfile/pkg/types"
	"github.com/megvii-research/go-megfile/pkg/uri"
)

var log = logging.GetLogger("smart")

// backendKey identifies one backend instance: a scheme bound to a profile.
type backendKey struct {
	scheme  string
	profile string
}

var (
	backendMu    sync.Mutex
	backendCache = make(map[backendKey]types.FileSystem)
)

// resolve returns the backend serving path's scheme and profile, building
// and caching it on first use. S3 and SFTP backends hold connections, so
// repeated operations reuse one instance.
func resolve(path string) (types.FileSystem, error) {
	scheme, _, profile := uri.Split(path)
	key := backendKey{scheme: scheme, profile: profile}

	backendMu.Lock()
	defer backendMu.Unlock()
	if fs, ok := backendCache[key]; ok {
		return fs, nil
	}
	fs, err := registry.GetFileSystem(scheme, profile)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("scheme", scheme).Str("profile", profile).Msg("Backend instance created")
	backendCache[key] = fs
	return fs, nil
}

// ResetBackends drops every cached backend instance, so configuration
// changes take effect on the next operation.
func ResetBackends() {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendCache = make(map[backendKey]types.FileSystem)
}

// Exists reports whether the URI points to an existing file or directory.
func Exists(ctx context.Context, path string) (bool, error) {
	fs, err := resolve(path)
	if err != nil {
		return false, err
	}
	return fs.Exists(ctx, path)
}

// IsDir reports whether the URI points to a directory.
func IsDir(ctx context.Context, path string) (bool, error) {
	fs, err := resolve(path)
	if err != nil {
		return false, err
	}
	return fs.IsDir(ctx, path)
}

// IsFile reports whether the URI points to a regular file.
func IsFile(ctx context.Context, path string) (bool, error) {
	fs, err := resolve(path)
	if err != nil {
		return false, err
	}
	return fs.IsFile(ctx, path)
}

// Stat returns the metadata behind the URI.
func Stat(ctx context.Context, path string) (types.StatResult, error) {
	fs, err := resolve(path)
	if err != nil {
		return types.StatResult{}, err
	}
	return fs.Stat(ctx, path)
}

// ScanDir yields the entries of the directory behind the URI.
func ScanDir(ctx context.Context, dir string) iter.Seq2[types.Entry, error] {
	return func(yield func(types.Entry, error) bool) {
		fs, err := resolve(dir)
		if err != nil {
			yield(types.Entry{}, err)
			return
		}
		for entry, err := range fs.ScanDir(ctx, dir) {
			if !yield(entry, err) {
				return
			}
		}
	}
}

// ListDir returns the names of the directory's entries.
func ListDir(ctx context.Context, dir string) ([]string, error) {
	names := []string{}
	for entry, err := range ScanDir(ctx, dir) {
		if err != nil {
			return nil, err
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

// Glob returns every path matching pattern, across all the schemes the
// pattern's brace alternatives mention.
func Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error) {
	done := logging.LogOperationStart(log, "glob")
	defer done()

	matches := []string{}
	for path, err := range IGlob(ctx, pattern, opts...) {
		if err != nil {
			return nil, err
		}
		matches = append(matches, path)
	}
	return matches, nil
}

// IGlob streams the paths matching pattern. Brace alternatives are grouped
// by scheme and profile, each group traverses its backend lazily, and
// results are de-duplicated across groups. With MissingOK off the pattern
// is a not-found error only when every group came up empty.
func IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	// Configuration supplies the base behavior, explicit options override it.
	defaults := config.GetDefaults()
	o := glob.NewOptions(append([]glob.Option{
		glob.WithRecursive(defaults.Recursive),
		glob.WithMissingOK(defaults.MissingOK),
	}, opts...)...)
	return func(yield func(string, error) bool) {
		seen := make(map[string]struct{})
		matched := false
		for _, group := range groupPatterns(pattern) {
			fs, err := resolve(group)
			if err != nil {
				yield("", err)
				return
			}
			// Each group runs tolerant; the no-match policy applies to the
			// whole pattern below.
			for path, err := range fs.IGlob(ctx, group, glob.WithRecursive(o.Recursive), glob.WithMissingOK(true)) {
				if err != nil {
					yield("", err)
					return
				}
				matched = true
				if _, dup := seen[path]; dup {
					continue
				}
				seen[path] = struct{}{}
				if !yield(path, nil) {
					return
				}
			}
		}
		if !matched && !o.MissingOK {
			yield("", errors.Newf(errors.ErrNotFound, "no match for pattern: %s", pattern).
				WithDetail("pattern", pattern))
		}
	}
}

// groupPatterns expands brace alternatives and re-compacts them into one
// pattern per scheme and profile, in first-appearance order.
func groupPatterns(pattern string) []string {
	groups := make(map[backendKey][]string)
	var order []backendKey
	for _, sub := range glob.Ungloblize(pattern) {
		scheme, _, profile := uri.Split(sub)
		key := backendKey{scheme: scheme, profile: profile}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], sub)
	}
	patterns := make([]string, 0, len(order))
	for _, key := range order {
		patterns = append(patterns, glob.Globlize(groups[key]))
	}
	return patterns
}

// PathJoin joins parts onto base, keeping base's scheme prefix. The joined
// path is cleaned, so redundant separators and dot segments collapse.
func PathJoin(base string, parts ...string) string {
	prefix, rest := uri.SplitPrefix(base)
	segs := append([]string{rest}, parts...)
	return prefix + path.Join(segs...)
}
