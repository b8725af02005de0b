package header

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// marshalJSONString quotes and escapes s using encoding/json's string
// encoding rules, without the surrounding object/array machinery that
// json.Marshal would otherwise impose on map or struct values. This
// is the building block for Header's own ordered object marshalling,
// grounded on the same "build the object byte buffer by hand, reuse
// stdlib only for scalar escaping" technique used by ordered JWK field
// marshalling (see pkg/jwk).
func marshalJSONString(s string) ([]byte, error) {
	return json.Marshal(s)
}

// decodeOrderedStringObject parses a flat JSON object whose members
// are all strings, returning both the name->value mapping and the
// member order as it appeared in data. Header parsing needs the order
// (not just the values) because re-exporting a parsed header must be
// able to reproduce byte-identical output when nothing changed.
func decodeOrderedStringObject(data []byte) (map[string]string, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("expected JSON object: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	values := make(map[string]string)
	var order []string

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("reading member name: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected string member name, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("reading value for %q: %w", key, err)
		}
		value, ok := valTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: member %q is not a string", ErrInvalidParameterType, key)
		}

		if _, exists := values[key]; !exists {
			order = append(order, key)
		}
		values[key] = value
	}

	closeTok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("expected closing brace: %w", err)
	}
	if delim, ok := closeTok.(json.Delim); !ok || delim != '}' {
		return nil, nil, fmt.Errorf("expected closing brace, got %v", closeTok)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, fmt.Errorf("unexpected trailing data after object")
	}

	return values, order, nil
}
