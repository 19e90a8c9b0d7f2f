package ui

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/style"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// terminalRenderer writes rich output using the shared style palette.
type terminalRenderer struct {
	out io.Writer
}

func (r *terminalRenderer) RenderMatches(matches []Match) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(r.out, style.MutedStyle.Render("No matches found"))
		return err
	}
	for _, m := range matches {
		line := styledPath(m.Path, m.Stat)
		if m.Stat != nil {
			line = fmt.Sprintf("%10s  %s  %s", humanSize(m.Stat.Size), formatTime(m.Stat.ModifyTime), line)
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) RenderEntries(entries []types.Entry, long bool) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(r.out, style.MutedStyle.Render("Empty directory"))
		return err
	}
	for _, e := range entries {
		stat := e.Stat
		line := styledPath(entryLabel(e), &stat)
		if long {
			line = fmt.Sprintf("%10s  %s  %s", humanSize(stat.Size), formatTime(stat.ModifyTime), line)
		}
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) RenderLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(r.out, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func (r *terminalRenderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	var merr *errors.MegfileError
	if stderrors.As(err, &merr) {
		msg := merr.Message
		if merr.Wrapped != nil {
			msg = fmt.Sprintf("%s: %v", merr.Message, merr.Wrapped)
		}
		_, werr := fmt.Fprintf(r.out, "%s [%s] %s\n",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(merr.Code)),
			msg)
		return werr
	}
	_, werr := fmt.Fprintf(r.out, "%s %s\n",
		pterm.Error.Prefix.Text,
		pterm.Error.MessageStyle.Sprint(err.Error()))
	return werr
}

// styledPath colors a path by kind: directories, links, then plain files
func styledPath(path string, stat *types.StatResult) string {
	switch {
	case stat != nil && stat.IsLink:
		return style.LinkStyle.Render(path)
	case stat != nil && stat.IsDir:
		return style.DirStyle.Render(path)
	default:
		return path
	}
}

// entryLabel renders a listing entry by name, with the conventional
// trailing slash on directories
func entryLabel(e types.Entry) string {
	if e.IsDir() && e.Name != "" {
		return e.Name + "/"
	}
	return e.Name
}
