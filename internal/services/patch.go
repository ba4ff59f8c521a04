package services

import (
	"encoding/json"
	"fmt"
)

// decodePatch rejects fields unless every key is in allowed, then decodes
// them into dst.
func decodePatch(fields map[string]json.RawMessage, allowed []string, dst interface{}) error {
	for key := range fields {
		if !contains(allowed, key) {
			return fmt.Errorf("%w: %s", ErrFieldsNotAllowed, key)
		}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
