package config

import (
	"github.com/megvii-research/go-megfile/pkg/errors"
)

// S3Profile holds the connection settings for one S3 endpoint
type S3Profile struct {
	// Endpoint overrides the service URL, empty for AWS
	Endpoint string `koanf:"endpoint" toml:"endpoint,omitempty"`

	// Region is the bucket region
	Region string `koanf:"region" toml:"region,omitempty"`

	// AccessKey and SecretKey override the ambient credential chain
	AccessKey string `koanf:"access_key" toml:"access_key,omitempty"`
	SecretKey string `koanf:"secret_key" toml:"secret_key,omitempty"`

	// PathStyle forces path-style addressing, required by most
	// S3-compatible object stores
	PathStyle bool `koanf:"path_style" toml:"path_style,omitempty"`
}

// SFTPProfile holds the connection settings for one SFTP host
type SFTPProfile struct {
	// Host is the server to connect to
	Host string `koanf:"host" toml:"host,omitempty"`

	// Port is the SSH port, 22 when unset
	Port int `koanf:"port" toml:"port,omitempty"`

	// User is the login name
	User string `koanf:"user" toml:"user,omitempty"`

	// Password authenticates when KeyFile is empty
	Password string `koanf:"password" toml:"password,omitempty"`

	// KeyFile is the path to a private key
	KeyFile string `koanf:"key_file" toml:"key_file,omitempty"`
}

// Profile bundles the per-scheme settings reachable under one name.
// A path like s3+dev://bucket/key selects the profile named "dev".
type Profile struct {
	S3   S3Profile   `koanf:"s3" toml:"s3,omitempty"`
	SFTP SFTPProfile `koanf:"sftp" toml:"sftp,omitempty"`
}

// Defaults holds the traversal behavior applied when callers pass no options
type Defaults struct {
	// Recursive controls whether ** segments walk whole subtrees
	Recursive bool `koanf:"recursive" toml:"recursive"`

	// MissingOK controls whether an empty match is acceptable
	MissingOK bool `koanf:"missing_ok" toml:"missing_ok"`
}

// Config is the main configuration structure
type Config struct {
	Defaults Defaults           `koanf:"defaults" toml:"defaults"`
	Profiles map[string]Profile `koanf:"profiles" toml:"profiles,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Recursive: true,
			MissingOK: true,
		},
		Profiles: map[string]Profile{},
	}
}

// Profile returns the named connection profile. The empty name selects the
// profile called "default" when it exists, otherwise a zero profile that
// leaves every backend on its ambient defaults. A non-empty name that is
// not configured is an error.
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		return c.Profiles["default"], nil
	}
	p, ok := c.Profiles[name]
	if !ok {
		return Profile{}, errors.Newf(errors.ErrProfileNotFound, "profile %q not found in configuration", name).
			WithDetail("profile", name)
	}
	return p, nil
}
