// Package json contains utilities for handling JSON.
package json

import (
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// DecodeJSON decodes a JSON object.
func DecodeJSON(dst any, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}

	// Ensure no extra tokens after decoding
	if _, err := decoder.Token(); err != io.EOF {
		return fmt.Errorf("unexpected token after JSON object: %w", err)
	}
	return nil
}

// DecodeRequest decodes a request body into dst, rejecting trailing input.
func DecodeRequest(r *http.Request, dst any) error {
	return DecodeJSON(dst, json.NewDecoder(r.Body))
}

// EncodeResponse writes v as a JSON response with the given status code.
func EncodeResponse(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
