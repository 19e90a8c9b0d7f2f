// Package registry provides a generic, type-safe registry system
// for managing storage backends by URI scheme. It supports
// automatic registration through init() functions.
package registry
