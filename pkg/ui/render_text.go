package ui

import (
	"fmt"
	"io"

	"github.com/megvii-research/go-megfile/pkg/types"
)

// textRenderer writes plain output with no styling, suitable for pipes.
type textRenderer struct {
	out io.Writer
}

func (r *textRenderer) RenderMatches(matches []Match) error {
	for _, m := range matches {
		line := m.Path
		if m.Stat != nil {
			line = fmt.Sprintf("%10s  %s  %s", humanSize(m.Stat.Size), formatTime(m.Stat.ModifyTime), line)
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderEntries(entries []types.Entry, long bool) error {
	for _, e := range entries {
		line := entryLabel(e)
		if long {
			line = fmt.Sprintf("%10s  %s  %s", humanSize(e.Stat.Size), formatTime(e.Stat.ModifyTime), line)
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func (r *textRenderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	_, werr := fmt.Fprintf(r.out, "Error: %s\n", err.Error())
	return werr
}
