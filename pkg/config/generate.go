package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/megvii-research/go-megfile/pkg/errors"
)

// GenerateConfigContent generates starter config file content with all
// values commented out
func GenerateConfigContent() string {
	return commentOutConfigValues(GetDefaultsContent())
}

// WriteDefault writes the starter config file to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "config file already exists: %s", path).
			WithDetail("path", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create config directory %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(GenerateConfigContent()), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to write config file %s", path)
	}
	log.Info().Str("path", path).Msg("Wrote starter configuration")
	return nil
}

// Describe renders the effective configuration as TOML. Credentials are
// replaced with a placeholder so the output is safe to paste into bug
// reports.
func Describe(cfg *Config) (string, error) {
	if cfg == nil {
		cfg = Default()
	}

	redacted := *cfg
	redacted.Profiles = make(map[string]Profile, len(cfg.Profiles))
	for name, profile := range cfg.Profiles {
		if profile.S3.SecretKey != "" {
			profile.S3.SecretKey = "***"
		}
		if profile.SFTP.Password != "" {
			profile.SFTP.Password = "***"
		}
		redacted.Profiles[name] = profile
	}

	content, err := toml.Marshal(&redacted)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrConfigParse, "failed to render configuration")
	}
	return string(content), nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [defaults], [profiles.dev.s3]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
