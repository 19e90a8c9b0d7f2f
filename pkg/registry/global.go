package registry

import (
	"fmt"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// FileSystemFactory creates a backend instance bound to one named
// configuration profile. The profile is empty for the default configuration.
type FileSystemFactory func(profile string) (types.FileSystem, error)

// Global registry for storage backends
var filesystemFactoryRegistry Registry[FileSystemFactory]

func init() {
	filesystemFactoryRegistry = New[FileSystemFactory]()
}

// RegisterFileSystem registers a backend factory under its URI scheme.
// Backends call this from their init() functions.
func RegisterFileSystem(scheme string, factory FileSystemFactory) error {
	return filesystemFactoryRegistry.Register(scheme, factory)
}

// GetFileSystem builds the backend registered for scheme, bound to profile.
func GetFileSystem(scheme, profile string) (types.FileSystem, error) {
	factory, err := filesystemFactoryRegistry.Get(scheme)
	if err != nil {
		return nil, errors.Newf(errors.ErrProtocolNotFound, "unsupported protocol: %s", scheme).
			WithDetail("scheme", scheme)
	}

	fs, err := factory(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem for %s: %w", scheme, err)
	}
	return fs, nil
}

// HasFileSystem checks if a backend is registered for scheme.
func HasFileSystem(scheme string) bool {
	return filesystemFactoryRegistry.Has(scheme)
}

// ListFileSystems returns all registered schemes in sorted order.
func ListFileSystems() []string {
	return filesystemFactoryRegistry.List()
}
