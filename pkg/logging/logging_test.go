package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp dir for log file
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			if zerolog.GlobalLevel() != tt.wantLevel {
				t.Errorf("SetupLogger(%d) set level to %v, want %v",
					tt.verbosity, zerolog.GlobalLevel(), tt.wantLevel)
			}

			// Check that log file was created
			logPath := filepath.Join(tempDir, "megfile", "megfile.log")
			if _, err := os.Stat(logPath); os.IsNotExist(err) {
				t.Errorf("Log file was not created at %s", logPath)
			}
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	tests := []struct {
		name         string
		xdgState     string
		wantContains string
	}{
		{
			name:         "with XDG_STATE_HOME",
			xdgState:     "/custom/state",
			wantContains: "/custom/state/megfile/megfile.log",
		},
		{
			name:         "without XDG_STATE_HOME",
			xdgState:     "",
			wantContains: ".local/state/megfile/megfile.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.xdgState != "" {
				t.Setenv("XDG_STATE_HOME", tt.xdgState)
			}

			got := getLogFilePath()
			if !filepath.IsAbs(got) {
				t.Errorf("getLogFilePath() returned relative path: %s", got)
			}
			if !contains(got, tt.wantContains) {
				t.Errorf("getLogFilePath() = %s, want to contain %s", got, tt.wantContains)
			}
		})
	}
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	logger := GetLogger("glob")
	logger.Info().Msg("test message")

	output := buf.String()
	if !strings.Contains(output, `"component":"glob"`) {
		t.Errorf("GetLogger() output missing component field: %s", output)
	}
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	logger := GetLogger("smart")
	done := LogOperationStart(logger, "glob-dispatch")
	done()

	output := buf.String()
	if !strings.Contains(output, "Operation started") {
		t.Errorf("missing start entry: %s", output)
	}
	if !strings.Contains(output, "Operation completed") {
		t.Errorf("missing completion entry: %s", output)
	}
	if !strings.Contains(output, "glob-dispatch") {
		t.Errorf("missing operation name: %s", output)
	}
}

// Helper function
func contains(s, substr string) bool {
	// Clean paths to handle different OS separators
	cleanedS := filepath.ToSlash(s)
	cleanedSubstr := filepath.ToSlash(substr)
	return strings.Contains(cleanedS, cleanedSubstr)
}
