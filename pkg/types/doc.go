// Package types defines the core types and interfaces used throughout
// megfile. This includes the FileSystem interface that every storage
// backend implements, as well as data structures like StatResult and Entry.
package types
