// Package testutil provides utilities for testing go-megfile components.
//
// Key components:
//   - MemoryFS: an in-memory backend implementing types.FileSystem, with
//     per-path error injection and probe counting
//
// MemoryFS behaves like the real backends: it answers the same capability
// probes, translates missing paths to the shared error codes and implements
// Glob and IGlob through the traversal engine. Tests register it under a
// throwaway scheme to exercise scheme dispatch without touching a disk or a
// network.
package testutil
