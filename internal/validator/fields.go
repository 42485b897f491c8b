package validator

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Fields keeps the values Decode rejected, keyed by JSON field name.
// Embed it in a request struct with a `json:"-"` tag.
type Fields struct {
	rejected map[string]string
}

type fieldRecorder interface {
	fields() *Fields
}

func (f *Fields) fields() *Fields {
	return f
}

func (f *Fields) reject(name, msg string) {
	if f.rejected == nil {
		f.rejected = make(map[string]string)
	}
	f.rejected[name] = msg
}

func (f *Fields) message(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	msg, ok := f.rejected[name]
	return msg, ok
}

// Text is a free-form string field that also takes JSON numbers and
// booleans, keeping them as written.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case float64, bool:
		*t = Text(bytes.TrimSpace(data))
		return nil
	}
	return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeOf("")}
}
