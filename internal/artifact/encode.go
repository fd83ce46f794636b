package artifact

import (
	"bytes"
	"encoding/json"
)

// Encode produces the single-line JSON form of an artifact. HTML escaping
// is disabled so dataset names and messages round-trip verbatim.
func Encode(v interface{}) ([]byte, error) {
	if r, ok := v.(*Result); ok {
		r.Normalize()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out, nil
}
