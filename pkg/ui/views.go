package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/megvii-research/go-megfile/pkg/types"
)

// timeLayout is the timestamp column format for terminal and text output
const timeLayout = "2006-01-02 15:04"

// record is the wire shape shared by the JSON and YAML renderers.
type record struct {
	Path       string     `json:"path" yaml:"path"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Size       *int64     `json:"size,omitempty" yaml:"size,omitempty"`
	ModifyTime *time.Time `json:"mtime,omitempty" yaml:"mtime,omitempty"`
	IsDir      *bool      `json:"is_dir,omitempty" yaml:"is_dir,omitempty"`
	IsLink     *bool      `json:"is_link,omitempty" yaml:"is_link,omitempty"`
}

func statFields(rec *record, stat types.StatResult) {
	size := stat.Size
	rec.Size = &size
	if !stat.ModifyTime.IsZero() {
		mtime := stat.ModifyTime
		rec.ModifyTime = &mtime
	}
	isDir := stat.IsDir
	rec.IsDir = &isDir
	isLink := stat.IsLink
	rec.IsLink = &isLink
}

func matchRecords(matches []Match) []record {
	records := make([]record, 0, len(matches))
	for _, m := range matches {
		rec := record{Path: m.Path}
		if m.Stat != nil {
			statFields(&rec, *m.Stat)
		}
		records = append(records, rec)
	}
	return records
}

func entryRecords(entries []types.Entry, long bool) []record {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		rec := record{Path: e.Path, Name: e.Name}
		if long {
			statFields(&rec, e.Stat)
		}
		records = append(records, rec)
	}
	return records
}

// humanSize formats a byte count with at most one decimal place above the
// kilobyte boundary, the way ls -lh does.
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatTime renders a timestamp column, blank for zero times so columns
// stay aligned for backends that do not track one
func formatTime(t time.Time) string {
	if t.IsZero() {
		return strings.Repeat(" ", len(timeLayout))
	}
	return t.Format(timeLayout)
}
