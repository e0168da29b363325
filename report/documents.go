package report

import (
	"encoding/json"
	"io"
)

// StatusDoc is printed once at the end of every run.
type StatusDoc struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func Status(err error) StatusDoc {
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "unknown error"
		}
		return StatusDoc{Type: "status", Status: "error", Error: msg}
	}
	return StatusDoc{Type: "status", Status: "ok"}
}

// FormatEntry describes one export format available to the generic exporter.
type FormatEntry struct {
	ID          string `json:"id"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
}

type ListDoc struct {
	Type   string        `json:"type"`
	Status string        `json:"status"`
	List   []FormatEntry `json:"list"`
}

func FormatList(entries []FormatEntry) ListDoc {
	if entries == nil {
		entries = []FormatEntry{}
	}
	return ListDoc{Type: "list", Status: "ok", List: entries}
}

// Write encodes doc as indented JSON followed by a newline.
func Write(w io.Writer, doc interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}
