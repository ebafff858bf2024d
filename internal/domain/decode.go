package domain

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// decodeValue sets *dst from raw. null is rejected and dst is left untouched
// when decoding fails.
func decodeValue[T any](raw json.RawMessage, dst *T) error {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return ErrNullValue
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// decodeOptional sets *dst from raw; null clears it. dst is left untouched
// when decoding fails.
func decodeOptional[T any](raw json.RawMessage, dst **T) error {
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		*dst = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}
