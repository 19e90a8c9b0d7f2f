package testutil

import (
	"context"
	"iter"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/filesystem"
	"github.com/megvii-research/go-megfile/pkg/glob"
	"github.com/megvii-research/go-megfile/pkg/types"
	"github.com/megvii-research/go-megfile/pkg/uri"
)

// Epoch is the modification time MemoryFS assigns to new files
var Epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// node is one file or directory in memory
type node struct {
	size    int64
	modTime time.Time
	isDir   bool
	isLink  bool
}

// MemoryFS implements types.FileSystem with in-memory storage. Paths are
// addressed with the scheme prefix the instance was created with, parents are
// created implicitly, and errors can be injected per path.
type MemoryFS struct {
	scheme string

	mu    sync.RWMutex
	nodes map[string]*node
	errs  map[string]error

	// Probe statistics
	statCalls int
	scanCalls int
}

// NewMemoryFS creates an empty in-memory filesystem answering to scheme.
// An empty scheme makes it answer to bare paths.
func NewMemoryFS(scheme string) *MemoryFS {
	return &MemoryFS{
		scheme: scheme,
		nodes:  map[string]*node{"": {isDir: true, modTime: Epoch}},
		errs:   make(map[string]error),
	}
}

// rest strips the scheme prefix and any trailing separator so every node is
// keyed the same way regardless of how the caller spelled the path
func (m *MemoryFS) rest(path string) string {
	_, rest := uri.SplitPrefix(path)
	return strings.TrimSuffix(rest, "/")
}

// fullPath rebuilds the addressable form of a stored key
func (m *MemoryFS) fullPath(rest string) string {
	if m.scheme == "" {
		return rest
	}
	return m.scheme + "://" + rest
}

// WriteFile stores a file at path, creating parent directories as needed.
// The reported size is the content length and the modification time is Epoch.
func (m *MemoryFS) WriteFile(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rest := m.rest(path)
	m.mkdirParents(rest)
	m.nodes[rest] = &node{size: int64(len(content)), modTime: Epoch}
}

// MkdirAll creates a directory at path along with any missing parents
func (m *MemoryFS) MkdirAll(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rest := m.rest(path)
	m.mkdirParents(rest)
	if _, ok := m.nodes[rest]; !ok {
		m.nodes[rest] = &node{isDir: true, modTime: Epoch}
	}
}

func (m *MemoryFS) mkdirParents(rest string) {
	for dir := parentOf(rest); dir != ""; dir = parentOf(dir) {
		if _, ok := m.nodes[dir]; ok {
			return
		}
		m.nodes[dir] = &node{isDir: true, modTime: Epoch}
	}
}

// MarkLink flags an existing path as a symbolic link
func (m *MemoryFS) MarkLink(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[m.rest(path)]; ok {
		n.isLink = true
	}
}

// SetModTime overrides the modification time of an existing path
func (m *MemoryFS) SetModTime(path string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.nodes[m.rest(path)]; ok {
		n.modTime = t
	}
}

// FailWith injects an error returned by every operation touching path
func (m *MemoryFS) FailWith(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errs[m.rest(path)] = err
}

// StatCalls reports how many Stat probes the instance has served
func (m *MemoryFS) StatCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statCalls
}

// ScanCalls reports how many ScanDir listings the instance has served
func (m *MemoryFS) ScanCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scanCalls
}

// Scheme returns the scheme the instance answers to
func (m *MemoryFS) Scheme() string {
	return m.scheme
}

// Exists reports whether path is present
func (m *MemoryFS) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rest := m.rest(path)
	if err := m.errs[rest]; err != nil {
		return false, err
	}
	_, ok := m.nodes[rest]
	return ok, nil
}

// IsDir reports whether path is a directory
func (m *MemoryFS) IsDir(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rest := m.rest(path)
	if err := m.errs[rest]; err != nil {
		return false, err
	}
	n, ok := m.nodes[rest]
	return ok && n.isDir, nil
}

// IsFile reports whether path is a regular file or link
func (m *MemoryFS) IsFile(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rest := m.rest(path)
	if err := m.errs[rest]; err != nil {
		return false, err
	}
	n, ok := m.nodes[rest]
	return ok && !n.isDir, nil
}

// Stat returns the metadata stored for path
func (m *MemoryFS) Stat(ctx context.Context, path string) (types.StatResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statCalls++

	rest := m.rest(path)
	if err := m.errs[rest]; err != nil {
		return types.StatResult{}, err
	}
	n, ok := m.nodes[rest]
	if !ok {
		return types.StatResult{}, errors.Newf(errors.ErrNotFound, "no such file or directory: %s", path).
			WithDetail("path", path)
	}
	return m.statOf(n), nil
}

func (m *MemoryFS) statOf(n *node) types.StatResult {
	return types.StatResult{
		Size:       n.size,
		ModifyTime: n.modTime,
		IsDir:      n.isDir,
		IsLink:     n.isLink,
	}
}

// ScanDir yields the entries of dir in ascending name order
func (m *MemoryFS) ScanDir(ctx context.Context, dir string) iter.Seq2[types.Entry, error] {
	return func(yield func(types.Entry, error) bool) {
		m.mu.Lock()
		m.scanCalls++

		rest := m.rest(dir)
		if err := m.errs[rest]; err != nil {
			m.mu.Unlock()
			yield(types.Entry{}, err)
			return
		}
		parent, ok := m.nodes[rest]
		if !ok {
			m.mu.Unlock()
			yield(types.Entry{}, errors.Newf(errors.ErrNotFound, "no such directory: %s", dir).
				WithDetail("path", dir))
			return
		}
		if !parent.isDir {
			m.mu.Unlock()
			yield(types.Entry{}, errors.Newf(errors.ErrNotADirectory, "not a directory: %s", dir).
				WithDetail("path", dir))
			return
		}

		var entries []types.Entry
		for key, n := range m.nodes {
			if key != "" && parentOf(key) == rest {
				entries = append(entries, types.Entry{
					Name: childName(key),
					Path: m.fullPath(key),
					Stat: m.statOf(n),
				})
			}
		}
		m.mu.Unlock()

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		for _, entry := range entries {
			if ctx.Err() != nil {
				yield(types.Entry{}, ctx.Err())
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Glob collects every path matching pattern
func (m *MemoryFS) Glob(ctx context.Context, pattern string, opts ...glob.Option) ([]string, error) {
	return filesystem.GlobAll(ctx, m, pattern, opts...)
}

// IGlob yields every path matching pattern incrementally
func (m *MemoryFS) IGlob(ctx context.Context, pattern string, opts ...glob.Option) iter.Seq2[string, error] {
	return filesystem.IGlobAll(ctx, m, pattern, opts...)
}

func parentOf(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

func childName(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}
