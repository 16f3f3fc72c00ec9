package writers

import (
	"encoding/json"
	"io"
)

// encodeIndented writes v as two-space indented JSON plus a newline, the
// layout of run summaries and the json pair report. Paths and entity ids are
// written as given, without HTML escaping.
func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
