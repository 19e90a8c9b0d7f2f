// Test Type: Integration Test
// Description: End-to-end tests for the megfile CLI against an in-memory backend

package megfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/registry"
	"github.com/megvii-research/go-megfile/pkg/testutil"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// The mock:// scheme serves a small fixed tree for every test in this
// package.
func init() {
	fs := testutil.NewMemoryFS("mock")
	fs.WriteFile("mock://notes.txt", "north")
	fs.WriteFile("mock://data/a.txt", "alpha")
	fs.WriteFile("mock://data/b.log", "bravo")
	fs.WriteFile("mock://data/sub/c.txt", "charlie")
	err := registry.RegisterFileSystem("mock", func(profile string) (types.FileSystem, error) {
		return fs, nil
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register mock filesystem: %v", err))
	}
}

// runCommand executes the CLI with args, isolated from any user
// configuration, and returns the combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCommandIn(t, t.TempDir(), args...)
}

// runCommandIn is runCommand with an explicit configuration directory, for
// tests that need to inspect the files the command leaves behind.
func runCommandIn(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MEGFILE_CONFIG_DIR", configDir)

	rootCmd := NewRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootNoArgsShowsHelp(t *testing.T) {
	out, err := runCommand(t)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, out, "COMMANDS:")
	assert.Contains(t, out, "glob")
}

func TestRootUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestGlobCommand(t *testing.T) {
	out, err := runCommand(t, "glob", "--format", "text", "mock://data/*.txt")

	require.NoError(t, err)
	assert.Equal(t, "mock://data/a.txt\n", out)
}

func TestGlobCommandRecursive(t *testing.T) {
	out, err := runCommand(t, "glob", "--format", "text", "mock://**/*.txt")

	require.NoError(t, err)
	assert.Equal(t, "mock://notes.txt\nmock://data/a.txt\nmock://data/sub/c.txt\n", out)
}

func TestGlobCommandNoRecursive(t *testing.T) {
	out, err := runCommand(t, "glob", "--no-recursive", "--format", "text", "mock://**/*.txt")

	require.NoError(t, err)
	assert.Equal(t, "mock://data/a.txt\n", out)
}

func TestGlobCommandMultiplePatterns(t *testing.T) {
	out, err := runCommand(t, "glob", "--format", "text", "mock://data/*.log", "mock://data/*.txt")

	require.NoError(t, err)
	assert.Equal(t, "mock://data/b.log\nmock://data/a.txt\n", out)
}

func TestGlobCommandMissingTolerated(t *testing.T) {
	out, err := runCommand(t, "glob", "--format", "text", "mock://*.missing")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGlobCommandStrict(t *testing.T) {
	_, err := runCommand(t, "glob", "--strict", "--format", "text", "mock://*.missing")

	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
}

func TestGlobCommandMissingOKFromEnvironment(t *testing.T) {
	t.Setenv("MEGFILE_DEFAULTS__MISSING_OK", "false")

	_, err := runCommand(t, "glob", "--format", "text", "mock://*.missing")

	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
}

func TestGlobCommandStatJSON(t *testing.T) {
	out, err := runCommand(t, "glob", "--stat", "--format", "json", "mock://data/a.txt")
	require.NoError(t, err)

	var doc struct {
		Matches []struct {
			Path string `json:"path"`
			Size *int64 `json:"size"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Matches, 1)
	assert.Equal(t, "mock://data/a.txt", doc.Matches[0].Path)
	require.NotNil(t, doc.Matches[0].Size)
	assert.Equal(t, int64(5), *doc.Matches[0].Size)
}

func TestGlobCommandUnknownScheme(t *testing.T) {
	_, err := runCommand(t, "glob", "--format", "text", "nope://bucket/*.txt")

	require.Error(t, err)
	assert.Equal(t, errors.ErrProtocolNotFound, errors.GetErrorCode(err))
}

func TestLsCommand(t *testing.T) {
	out, err := runCommand(t, "ls", "--format", "text", "mock://data")

	require.NoError(t, err)
	assert.Equal(t, "a.txt\nb.log\nsub/\n", out)
}

func TestLsCommandLong(t *testing.T) {
	out, err := runCommand(t, "ls", "--long", "--format", "text", "mock://data")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "5 B")
	assert.Contains(t, lines[0], "2024-05-01 12:00")
	assert.Contains(t, lines[0], "a.txt")
	assert.Contains(t, lines[2], "sub/")
}

func TestLsCommandMissingDirectory(t *testing.T) {
	_, err := runCommand(t, "ls", "--format", "text", "mock://absent")

	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
}

func TestMatchCommand(t *testing.T) {
	out, err := runCommand(t, "match", "--format", "text", "*.txt", "a.txt", "b.log", "c.txt")

	require.NoError(t, err)
	assert.Equal(t, "a.txt\nc.txt\n", out)
}

func TestMatchCommandNoMatches(t *testing.T) {
	out, err := runCommand(t, "match", "--format", "text", "*.go", "a.txt", "b.log")

	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.GetErrorCode(err))
	assert.Empty(t, out)
}

func TestTranslateCommand(t *testing.T) {
	out, err := runCommand(t, "translate", "--format", "text", "*.txt")

	require.NoError(t, err)
	assert.Equal(t, `\A(?s:[^/]*\.txt)\z`+"\n", out)
}

func TestExpandCommand(t *testing.T) {
	out, err := runCommand(t, "expand", "--format", "text", "{a,b}/*.txt")

	require.NoError(t, err)
	assert.Equal(t, "a/*.txt\nb/*.txt\n", out)
}

func TestCompactCommandArgs(t *testing.T) {
	out, err := runCommand(t, "compact", "--format", "text", "data/a.txt", "data/b.txt")

	require.NoError(t, err)
	assert.Equal(t, "data/{a,b}.txt\n", out)
}

func TestCompactCommandStdin(t *testing.T) {
	t.Setenv("MEGFILE_CONFIG_DIR", t.TempDir())

	rootCmd := NewRootCmd()
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetIn(strings.NewReader("logs/app.log\nlogs/db.log\n"))
	rootCmd.SetArgs([]string{"compact", "--format", "text"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "logs/{app,db}.log\n", out.String())
}

func TestCompactCommandEmptyInput(t *testing.T) {
	t.Setenv("MEGFILE_CONFIG_DIR", t.TempDir())

	rootCmd := NewRootCmd()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs([]string{"compact", "--format", "text"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetErrorCode(err))
}

func TestEscapeCommand(t *testing.T) {
	out, err := runCommand(t, "escape", "--format", "text", "report[2024].txt")

	require.NoError(t, err)
	assert.Equal(t, "report[[]2024].txt\n", out)
}

func TestUnescapeCommand(t *testing.T) {
	out, err := runCommand(t, "unescape", "--format", "text", "report[[]2024].txt")

	require.NoError(t, err)
	assert.Equal(t, "report[2024].txt\n", out)
}

func TestConfigInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCommandIn(t, dir, "config", "init", "--format", "text")
	require.NoError(t, err)

	path := filepath.Join(dir, "config.toml")
	assert.Equal(t, fmt.Sprintf(MsgConfigInitialized, path)+"\n", out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# recursive = true")
}

func TestConfigInitCommandRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := runCommandIn(t, dir, "config", "init", "--format", "text")
	require.NoError(t, err)

	_, err = runCommandIn(t, dir, "config", "init", "--format", "text")
	require.Error(t, err)
	assert.Equal(t, errors.ErrAlreadyExists, errors.GetErrorCode(err))
}

func TestConfigShowCommand(t *testing.T) {
	out, err := runCommand(t, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "recursive = true")
	assert.Contains(t, out, "missing_ok = true")
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "custom.toml")
	cfgContent := "[profiles.dev.s3]\naccess_key = \"AKIA123\"\nsecret_key = \"hunter2\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0644))

	out, err := runCommand(t, "--config", cfgPath, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "AKIA123")
	assert.Contains(t, out, "***")
	assert.NotContains(t, out, "hunter2")
}

func TestConfigFlagMissingFile(t *testing.T) {
	_, err := runCommand(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "config", "show")

	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "megfile version dev\ncommit: unknown\nbuilt: unknown\n", out)
}

func TestHelpTopicsIndex(t *testing.T) {
	out, err := runCommand(t, "help", "topics")

	require.NoError(t, err)
	assert.Contains(t, out, "patterns")
	assert.Contains(t, out, "schemes")
	assert.Contains(t, out, "megfile help <topic>")
}

func TestHelpPatternsTopic(t *testing.T) {
	out, err := runCommand(t, "help", "patterns")

	require.NoError(t, err)
	assert.Contains(t, out, "dotfiles")
}

func TestHelpCommandFallback(t *testing.T) {
	out, err := runCommand(t, "help", "glob")

	require.NoError(t, err)
	assert.Contains(t, out, "glob PATTERN...")
}

func TestCompletionCommand(t *testing.T) {
	out, err := runCommand(t, "completion", "bash")

	require.NoError(t, err)
	assert.Contains(t, out, "megfile")
}

func TestCompletionCommandRejectsUnknownShell(t *testing.T) {
	_, err := runCommand(t, "completion", "tcsh")

	require.Error(t, err)
}
