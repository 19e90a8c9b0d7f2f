// Package glob matches path patterns against any storage backend.
//
// The traversal engine walks a pattern segment by segment over the three
// capabilities in FSFunc, so the same engine serves local disk, object
// stores and in-memory fixtures. Patterns never fail: malformed glob syntax
// degrades to literal text (see the fnmatch package). The package also
// carries the brace codec (Ungloblize, Globlize) and the escape helpers
// shared by every layer above.
//
// Traversal behavior in short: `*`, `?` and `[...]` stay inside one path
// segment and skip dotfiles unless the segment itself starts with a dot; a
// whole `**` segment matches any number of levels, dotfiles excluded; a
// pattern ending in `/` matches directories only; results come back in
// traversal order without duplicates.
package glob

import (
	"context"
	"iter"
	"strings"

	"github.com/megvii-research/go-megfile/pkg/fnmatch"
	"github.com/megvii-research/go-megfile/pkg/logging"
)

type globState struct {
	segIdx int
	base   string
	// rwalk marks a pending descendant expansion of base for the `**`
	// segment at segIdx.
	rwalk bool
}

// Glob returns all paths matching pattern, using fs to look at the world.
// It is IGlob collected into a slice; the first capability error aborts and
// is returned unmodified. Zero matches is not an error.
func Glob(ctx context.Context, pattern string, fs FSFunc, opts ...Option) ([]string, error) {
	matches := []string{}
	for path, err := range IGlob(ctx, pattern, fs, opts...) {
		if err != nil {
			return nil, err
		}
		matches = append(matches, path)
	}
	return matches, nil
}

// IGlob lazily yields the paths matching pattern in traversal order,
// de-duplicated. Directory listings happen as the sequence is consumed, one
// directory at a time; breaking out of the range stops the traversal and
// releases the listing in flight.
//
// Pattern syntax never produces an error: the error side of the sequence
// carries capability failures and context cancellation only.
func IGlob(ctx context.Context, pattern string, fs FSFunc, opts ...Option) iter.Seq2[string, error] {
	o := NewOptions(opts...)
	return func(yield func(string, error) bool) {
		if pattern == "" {
			return
		}
		log := logging.GetLogger("glob")
		log.Trace().
			Str("pattern", pattern).
			Bool("recursive", o.Recursive).
			Msg("starting traversal")

		if !HasMagic(pattern) {
			ok, err := literalMatch(ctx, pattern, fs)
			if err != nil {
				yield("", err)
				return
			}
			if ok {
				yield(pattern, nil)
			}
			return
		}

		base, segs := splitPattern(pattern)
		seen := make(map[string]struct{})
		emit := func(path string) bool {
			if _, dup := seen[path]; dup {
				return true
			}
			seen[path] = struct{}{}
			return yield(path, nil)
		}

		stack := []globState{{segIdx: 0, base: base}}
		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			st := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if st.segIdx == len(segs) {
				if !emit(st.base) {
					return
				}
				continue
			}
			seg := segs[st.segIdx]
			last := st.segIdx == len(segs)-1

			if st.rwalk {
				children, err := expandLevel(ctx, fs, st, last, len(segs))
				if err != nil {
					yield("", err)
					return
				}
				stack = pushReversed(stack, children)
				continue
			}

			switch {
			case seg == "**" && o.Recursive:
				// Zero levels first, then the descendant walk. A candidate
				// that is not a directory has no zero-level match and
				// nothing under it.
				if st.base != "" {
					ok, err := fs.IsDir(ctx, st.base)
					if err != nil {
						yield("", err)
						return
					}
					if !ok {
						continue
					}
				}
				if last {
					dir := st.base
					if dir != "" {
						if !strings.HasSuffix(dir, "/") {
							dir += "/"
						}
						if !emit(dir) {
							return
						}
					}
					stack = append(stack, globState{segIdx: st.segIdx, base: st.base, rwalk: true})
					continue
				}
				stack = pushReversed(stack, []globState{
					{segIdx: st.segIdx + 1, base: st.base},
					{segIdx: st.segIdx, base: st.base, rwalk: true},
				})

			case HasMagic(seg):
				children, err := expandWildcard(ctx, fs, st, seg, last, len(segs))
				if err != nil {
					yield("", err)
					return
				}
				stack = pushReversed(stack, children)

			default:
				if !last {
					stack = append(stack, globState{segIdx: st.segIdx + 1, base: joinPath(st.base, seg)})
					continue
				}
				if seg == "" {
					// Trailing separator: directories only.
					if st.base == "" {
						continue
					}
					ok, err := fs.IsDir(ctx, st.base)
					if err != nil {
						yield("", err)
						return
					}
					if ok && !emit(st.base+"/") {
						return
					}
					continue
				}
				path := joinPath(st.base, seg)
				ok, err := fs.Exists(ctx, path)
				if err != nil {
					yield("", err)
					return
				}
				if ok && !emit(path) {
					return
				}
			}
		}
	}
}

// literalMatch resolves a magic-free pattern with a single existence probe.
// A trailing separator restricts the match to directories, and the yielded
// path keeps it.
func literalMatch(ctx context.Context, pattern string, fs FSFunc) (bool, error) {
	if !strings.HasSuffix(pattern, "/") {
		return fs.Exists(ctx, pattern)
	}
	dir := strings.TrimRight(pattern, "/")
	if dir == "" {
		dir = "/"
	}
	return fs.IsDir(ctx, dir)
}

// expandWildcard lists one candidate directory and keeps the entries whose
// name matches the segment. Dotfiles only survive when the segment itself
// starts with a dot. Intermediate segments keep directories only; the final
// segment keeps everything.
func expandWildcard(ctx context.Context, fs FSFunc, st globState, seg string, last bool, total int) ([]globState, error) {
	matcher := fnmatch.Compile(seg)
	wantHidden := strings.HasPrefix(seg, ".")
	var children []globState
	for entry, err := range fs.ScanDir(ctx, st.base) {
		if err != nil {
			return nil, err
		}
		if !wantHidden && isHidden(entry.Name) {
			continue
		}
		if !matcher.Match(entry.Name) {
			continue
		}
		switch {
		case last:
			children = append(children, globState{segIdx: total, base: joinPath(st.base, entry.Name)})
		case entry.IsDir:
			children = append(children, globState{segIdx: st.segIdx + 1, base: joinPath(st.base, entry.Name)})
		}
	}
	return children, nil
}

// expandLevel lists one directory of a `**` walk. Dotfiles never appear in
// or below a `**` expansion. When the `**` segment is last every entry is a
// match and directories keep walking; otherwise only directories continue,
// both as walk targets and as candidates for the next segment.
func expandLevel(ctx context.Context, fs FSFunc, st globState, last bool, total int) ([]globState, error) {
	var children []globState
	for entry, err := range fs.ScanDir(ctx, st.base) {
		if err != nil {
			return nil, err
		}
		if isHidden(entry.Name) {
			continue
		}
		child := joinPath(st.base, entry.Name)
		if last {
			children = append(children, globState{segIdx: total, base: child})
			if entry.IsDir {
				children = append(children, globState{segIdx: st.segIdx, base: child, rwalk: true})
			}
			continue
		}
		if entry.IsDir {
			children = append(children,
				globState{segIdx: st.segIdx + 1, base: child},
				globState{segIdx: st.segIdx, base: child, rwalk: true})
		}
	}
	return children, nil
}

// pushReversed appends states back to front so they pop in listing order.
func pushReversed(stack, states []globState) []globState {
	for i := len(states) - 1; i >= 0; i-- {
		stack = append(stack, states[i])
	}
	return stack
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
