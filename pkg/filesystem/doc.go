// Package filesystem provides the storage backends for megfile.
//
// Each backend implements the types.FileSystem interface for one URI
// scheme (local disk, in-memory afero, S3, SFTP), registers itself with
// the scheme registry, and answers glob patterns by running the shared
// traversal engine over its own directory-scanning capability.
package filesystem
