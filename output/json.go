package output

import (
	"encoding/json"
	"io"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/codec"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines (one JSON object per line).
// Tile-valued columns are expanded into their columnar encoding so the
// output carries complete cell content.
func (j *JSONFormatter) Format(rows []map[string]interface{}) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range rows {
		out := make(map[string]interface{}, len(row))
		for col, v := range row {
			if t, ok := v.(cell.Tile); ok {
				out[col] = codec.EncodeTile(t)
				continue
			}
			out[col] = v
		}
		if err := encoder.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
