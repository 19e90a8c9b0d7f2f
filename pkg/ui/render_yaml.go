package ui

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/megvii-research/go-megfile/pkg/errors"
	"github.com/megvii-research/go-megfile/pkg/types"
)

// yamlRenderer writes machine-readable YAML documents.
type yamlRenderer struct {
	out io.Writer
}

func (r *yamlRenderer) RenderMatches(matches []Match) error {
	return r.encode(map[string]interface{}{"matches": matchRecords(matches)})
}

func (r *yamlRenderer) RenderEntries(entries []types.Entry, long bool) error {
	return r.encode(map[string]interface{}{"entries": entryRecords(entries, long)})
}

func (r *yamlRenderer) RenderLines(lines []string) error {
	return r.encode(map[string]interface{}{"lines": lines})
}

func (r *yamlRenderer) RenderMessage(msg string) error {
	return r.encode(map[string]interface{}{"message": msg})
}

func (r *yamlRenderer) RenderError(err error) error {
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

func (r *yamlRenderer) encode(v interface{}) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
