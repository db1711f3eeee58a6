package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AsJSON flattens v into a generic JSON object. Numbers are kept as
// json.Number so large unsigned ids survive the round trip.
func AsJSON(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("flatten %T: %w", v, err)
	}
	if obj == nil {
		obj = make(map[string]any)
	}
	return obj, nil
}
