package utils

import (
	"bytes"
	"encoding/json"
)

// MarshalRecords serializes a record collection for persistence and
// export. Output is 2-space indented UTF-8 with non-ASCII text left
// unescaped, so Japanese addresses and building names stay readable.
func MarshalRecords(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
