package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/logging"
)

var log = logging.GetLogger("config")

const envPrefix = "MEGFILE_"

// Load builds the effective configuration from three layers, later layers
// overriding earlier ones:
//
//  1. Embedded defaults
//  2. The user config file at UserConfigPath, if it exists
//  3. MEGFILE_* environment variables
func Load() (*Config, error) {
	path := UserConfigPath()
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	return load(path)
}

// LoadFrom behaves like Load but reads the given file instead of the user
// config file. Unlike Load, the file must exist.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access config file %s", path).
			WithDetail("path", path)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. Load user config file if given
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		log.Debug().Str("path", path).Msg("Loaded user configuration")
	}

	// 3. Load env vars. A double underscore separates nesting levels so
	// that keys may themselves contain underscores, e.g.
	// MEGFILE_DEFAULTS__MISSING_OK=false sets defaults.missing_ok.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Unmarshal
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}

	return &cfg, nil
}

// UserConfigPath returns the path of the user config file. The directory is
// $MEGFILE_CONFIG_DIR when set, otherwise the megfile subdirectory of the
// XDG config home. The first existing file among config.toml, config.yaml
// and config.yml wins; when none exists the TOML path is returned so
// callers know where a new file would be written.
func UserConfigPath() string {
	dir := os.Getenv("MEGFILE_CONFIG_DIR")
	if dir == "" {
		dir = filepath.Join(xdg.ConfigHome, "megfile")
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "config.toml")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config file extension: %q", filepath.Ext(path)).
			WithDetail("path", path)
	}
}
