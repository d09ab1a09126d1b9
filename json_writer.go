package folio

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter writes a JSON object whose keys keep the order they are appended in,
// unlike a marshaled map. The zero value is an empty object.
//
// The first error is kept and returned by MarshalJSON, later calls are no-ops.
type jsonObjectWriter struct {
	buf []byte // members, comma separated, without braces
	err error
}

// Append adds key with value marshaled by encoding/json.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = fmt.Errorf("invalid key %q: %w", key, err)
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("invalid value for %q: %w", key, err)
		return w
	}
	if len(w.buf) > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = append(append(append(w.buf, k...), ':'), v...)
	return w
}

// Optional is Append, but skips zero values and empty maps or slices.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if isEmptyValue(reflect.ValueOf(value)) {
		return w
	}
	return w.Append(key, value)
}

func isEmptyValue(v reflect.Value) bool {
	if !v.IsValid() || v.IsZero() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		return v.Len() == 0
	}
	return false
}

func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	obj := make([]byte, 0, len(w.buf)+2)
	return append(append(append(obj, '{'), w.buf...), '}'), nil
}

var _ json.Marshaler = (*jsonObjectWriter)(nil)
