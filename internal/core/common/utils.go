package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object out of a model reply.
// It tolerates markdown fences and prose around the object; only the first
// object is decoded, so braces in trailing prose are ignored.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.Index(response, "{")
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	var result T
	dec := json.NewDecoder(strings.NewReader(response[start:]))
	if err := dec.Decode(&result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, response[start:])
	}

	return result, nil
}
