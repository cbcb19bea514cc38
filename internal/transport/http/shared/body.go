package shared

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

var (
	ErrInvalidBody  = errors.New("Invalid JSON body.")
	ErrBodyTooLarge = errors.New("Request body too large.")
)

const maxCoercions = 16

// Decode reads the request body into dst. An empty body leaves dst as is.
// Wrapper shapes from the voice platform are unwrapped and scalar type
// mismatches on top-level fields are coerced, see Unwrap and coerce.
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return ErrInvalidBody
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	raw, err = Unwrap(raw)
	if err != nil {
		return ErrInvalidBody
	}
	if err := decodeLenient(raw, dst); err != nil {
		return ErrInvalidBody
	}
	return nil
}

// Unwrap returns the payload inside {"body":"<json>"} and then inside a
// {"params":{}}, {"json":{}} or {"data":{}} envelope, whichever is found
// first. Anything else is returned unchanged.
func Unwrap(raw []byte) ([]byte, error) {
	if !json.Valid(raw) {
		return nil, ErrInvalidBody
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return raw, nil
	}
	if inner, ok := obj["body"]; ok {
		var text string
		if json.Unmarshal(inner, &text) == nil {
			var nested map[string]json.RawMessage
			if json.Unmarshal([]byte(text), &nested) == nil {
				raw, obj = []byte(text), nested
			}
		}
	}
	for _, key := range []string{"params", "json", "data"} {
		if inner, ok := obj[key]; ok && isObject(inner) {
			return inner, nil
		}
	}
	return raw, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodeLenient(raw []byte, dst any) error {
	for range maxCoercions {
		err := json.Unmarshal(raw, dst)
		var typeErr *json.UnmarshalTypeError
		if err == nil || !errors.As(err, &typeErr) {
			return err
		}
		fixed, ok := coerce(raw, typeErr)
		if !ok {
			return err
		}
		raw = fixed
	}
	return json.Unmarshal(raw, dst)
}

// coerce rewrites one top-level field: numbers and booleans become strings
// for string fields, numeric strings become numbers for integer fields.
func coerce(raw []byte, typeErr *json.UnmarshalTypeError) ([]byte, bool) {
	if typeErr.Type == nil || typeErr.Field == "" || strings.Contains(typeErr.Field, ".") {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil, false
	}
	key := ""
	for k := range obj {
		if strings.EqualFold(k, typeErr.Field) {
			key = k
			break
		}
	}
	if key == "" {
		return nil, false
	}
	value := bytes.TrimSpace(obj[key])

	var replaced []byte
	switch typeErr.Type.Kind() {
	case reflect.String:
		if len(value) == 0 || value[0] == '"' || value[0] == '{' || value[0] == '[' {
			return nil, false
		}
		replaced, _ = json.Marshal(string(value))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var text string
		if json.Unmarshal(value, &text) != nil {
			return nil, false
		}
		text = strings.TrimSpace(text)
		if text == "" {
			replaced = []byte("0")
			break
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return nil, false
		}
		replaced = []byte(strconv.Itoa(n))
	default:
		return nil, false
	}

	obj[key] = replaced
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, false
	}
	return out, true
}
