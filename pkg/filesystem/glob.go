package filesystem

import (
	"context"
	"iter"
	"strings"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/logging"
	"github.com/megvii-research/go-megfile/pkg/types"
)

var log = logging.GetLogger("filesystem")

// GlobAll runs the traversal engine over a backend's capability probes and
// collects the matches. Backends implement their Glob method with it.
func GlobAll(ctx context.Context, fs types.FileSystem, pattern string, opts ...glob.Option) ([]string, error) {
	matches := []string{}
	for path, err := range IGlobAll(ctx, fs, pattern, opts...) {
		if err != nil {
			return nil, err
		}
		matches = append(matches, path)
	}
	return matches, nil
}

// IGlobAll expands brace alternatives, traverses each expansion and
// de-duplicates across them, so "{a,b}/*.txt" behaves as one pattern.
// Backends implement their IGlob method with it; the missing-ok policy
// applies to the pattern as a whole, never to a single alternative.
func IGlobAll(ctx context.Context, fs types.FileSystem, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	o := glob.NewOptions(opts...)
	return func(yield func(string, error) bool) {
		fsFunc := types.CapabilityOf(fs)
		seen := make(map[string]struct{})
		matched := false
		subs := glob.Ungloblize(pattern)
		if len(subs) > 1 {
			log.Debug().Str("pattern", pattern).Int("alternatives", len(subs)).Msg("expanded brace pattern")
		}
		for _, sub := range subs {
			for path, err := range glob.IGlob(ctx, sub, fsFunc, opts...) {
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

// joinEntryPath joins a scanned directory and an entry name without
// cleaning anything; bases like "s3://" keep their separator.
func joinEntryPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
