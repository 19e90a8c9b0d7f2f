package ui

import (
	"encoding/json"
	"io"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// jsonRenderer writes machine-readable JSON documents.
type jsonRenderer struct {
	out io.Writer
}

func (r *jsonRenderer) RenderMatches(matches []Match) error {
	return r.encode(map[string]interface{}{"matches": matchRecords(matches)})
}

func (r *jsonRenderer) RenderEntries(entries []types.Entry, long bool) error {
	return r.encode(map[string]interface{}{"entries": entryRecords(entries, long)})
}

func (r *jsonRenderer) RenderLines(lines []string) error {
	return r.encode(map[string]interface{}{"lines": lines})
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encode(map[string]interface{}{"message": msg})
}

func (r *jsonRenderer) RenderError(err error) error {
	if err == nil {
		return nil
	}
	doc := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    string(errors.GetErrorCode(err)),
			"message": err.Error(),
		},
	}
	return r.encode(doc)
}

func (r *jsonRenderer) encode(v interface{}) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
