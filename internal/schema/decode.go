package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

const (
	msgInvalidJSON  = "Invalid JSON body."
	msgBodyTooLarge = "Request body too large."
)

// Int is an integer that also accepts numeric strings and integral floats,
// e.g. 4, "4" and 4.0.
type Int int64

// Int64 returns the value as int64.
func (i Int) Int64() int64 {
	return int64(i)
}

// IntPtr returns a pointer to v as an Int.
func IntPtr(v int64) *Int {
	i := Int(v)
	return &i
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Int) UnmarshalJSON(b []byte) error {
	raw := string(bytes.TrimSpace(b))
	kind := "number"

	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(int64(0))}
		}
		raw = strings.TrimSpace(unquoted)
		kind = "string"
	}

	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = Int(n)
		return nil
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
		*i = Int(int64(f))
		return nil
	}

	if raw == "true" || raw == "false" {
		kind = "bool"
	}
	return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeOf(int64(0))}
}

// Decode reads a JSON body into dst. Decoding failures are reported as a
// ValidationError; type mismatches carry the offending field path.
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)

	err := dec.Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return NewValidationError(FieldError{Field: typeErr.Field, Msg: typeMessage(typeErr.Type)})
	case errors.As(err, &maxErr):
		return Message(msgBodyTooLarge)
	default:
		return &ValidationError{Errors: []FieldError{{Msg: msgInvalidJSON}}, Err: err}
	}
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "Input has an invalid type"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Input should be a valid integer"
	case reflect.String:
		return "Input should be a valid string"
	case reflect.Bool:
		return "Input should be a valid boolean"
	case reflect.Slice, reflect.Array:
		return "Input should be a valid list"
	case reflect.Struct, reflect.Map:
		return "Input should be a valid dictionary"
	default:
		return "Input has an invalid type"
	}
}
