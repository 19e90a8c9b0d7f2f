package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// Test Type: Unit Test
// Description: Verifies renderer construction and per-format output shapes.

func TestNewRenderer(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name   string
		format Format
		want   interface{}
	}{
		{name: "terminal", format: FormatTerminal, want: &terminalRenderer{}},
		{name: "text", format: FormatText, want: &textRenderer{}},
		{name: "json", format: FormatJSON, want: &jsonRenderer{}},
		{name: "yaml", format: FormatYAML, want: &yamlRenderer{}},
		{name: "auto_non_file", format: FormatAuto, want: &textRenderer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(tt.format, &buf)
			require.NoError(t, err)
			assert.IsType(t, tt.want, r)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := NewRenderer(Format(99), &buf)
		assert.Error(t, err)
	})
}

func TestTextRendererMatches(t *testing.T) {
	var buf bytes.Buffer
	r := &textRenderer{out: &buf}

	err := r.RenderMatches([]Match{
		{Path: "data/a.txt"},
		{Path: "s3://bkt/b.log"},
	})
	require.NoError(t, err)

	assert.Equal(t, "data/a.txt\ns3://bkt/b.log\n", buf.String())
}

func TestTextRendererMatchesWithStat(t *testing.T) {
	var buf bytes.Buffer
	r := &textRenderer{out: &buf}

	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := r.RenderMatches([]Match{
		{Path: "data/a.txt", Stat: &types.StatResult{Size: 2048, ModifyTime: mtime}},
	})
	require.NoError(t, err)

	line := strings.TrimRight(buf.String(), "\n")
	assert.Contains(t, line, "2.0 KB")
	assert.Contains(t, line, "2024-05-01 12:00")
	assert.Contains(t, line, "data/a.txt")
}

func TestTextRendererEntries(t *testing.T) {
	var buf bytes.Buffer
	r := &textRenderer{out: &buf}

	entries := []types.Entry{
		{Name: "sub", Path: "data/sub", Stat: types.StatResult{IsDir: true}},
		{Name: "a.txt", Path: "data/a.txt", Stat: types.StatResult{Size: 5}},
	}

	err := r.RenderEntries(entries, false)
	require.NoError(t, err)

	assert.Equal(t, "sub/\na.txt\n", buf.String())
}

func TestTextRendererError(t *testing.T) {
	var buf bytes.Buffer
	r := &textRenderer{out: &buf}

	err := r.RenderError(errors.New(errors.ErrNotFound, "no match for pattern"))
	require.NoError(t, err)

	assert.Equal(t, "Error: [NOT_FOUND] no match for pattern\n", buf.String())
}

func TestTerminalRendererEmptyMatches(t *testing.T) {
	var buf bytes.Buffer
	r := &terminalRenderer{out: &buf}

	require.NoError(t, r.RenderMatches(nil))
	assert.Contains(t, buf.String(), "No matches found")
}

func TestJSONRendererMatches(t *testing.T) {
	var buf bytes.Buffer
	r := &jsonRenderer{out: &buf}

	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	err := r.RenderMatches([]Match{
		{Path: "data/a.txt", Stat: &types.StatResult{Size: 5, ModifyTime: mtime}},
		{Path: "data/sub/", Stat: &types.StatResult{IsDir: true}},
	})
	require.NoError(t, err)

	var doc struct {
		Matches []struct {
			Path  string `json:"path"`
			Size  *int64 `json:"size"`
			IsDir *bool  `json:"is_dir"`
		} `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Matches, 2)
	assert.Equal(t, "data/a.txt", doc.Matches[0].Path)
	require.NotNil(t, doc.Matches[0].Size)
	assert.Equal(t, int64(5), *doc.Matches[0].Size)
	require.NotNil(t, doc.Matches[1].IsDir)
	assert.True(t, *doc.Matches[1].IsDir)
}

func TestJSONRendererOmitsStatWhenAbsent(t *testing.T) {
	var buf bytes.Buffer
	r := &jsonRenderer{out: &buf}

	require.NoError(t, r.RenderMatches([]Match{{Path: "a.txt"}}))

	assert.NotContains(t, buf.String(), "size")
	assert.NotContains(t, buf.String(), "is_dir")
}

func TestJSONRendererError(t *testing.T) {
	var buf bytes.Buffer
	r := &jsonRenderer{out: &buf}

	err := r.RenderError(errors.New(errors.ErrProtocolNotFound, "unknown scheme: gopher"))
	require.NoError(t, err)

	var doc struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "PROTOCOL_NOT_FOUND", doc.Error.Code)
	assert.Contains(t, doc.Error.Message, "gopher")
}

func TestYAMLRendererLines(t *testing.T) {
	var buf bytes.Buffer
	r := &yamlRenderer{out: &buf}

	require.NoError(t, r.RenderLines([]string{"one", "two"}))

	var doc struct {
		Lines []string `yaml:"lines"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"one", "two"}, doc.Lines)
}

func TestYAMLRendererEntries(t *testing.T) {
	var buf bytes.Buffer
	r := &yamlRenderer{out: &buf}

	entries := []types.Entry{
		{Name: "a.txt", Path: "s3://bkt/a.txt", Stat: types.StatResult{Size: 9}},
	}
	require.NoError(t, r.RenderEntries(entries, true))

	var doc struct {
		Entries []struct {
			Path string `yaml:"path"`
			Name string `yaml:"name"`
			Size *int64 `yaml:"size"`
		} `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "s3://bkt/a.txt", doc.Entries[0].Path)
	require.NotNil(t, doc.Entries[0].Size)
	assert.Equal(t, int64(9), *doc.Entries[0].Size)
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanSize(tt.n))
	}
}
