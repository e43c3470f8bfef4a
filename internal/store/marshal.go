package store

import (
	"encoding/json"
	"fmt"

	"github.com/wardi/bar-foo/internal/ir"
)

// marshalNames converts a class-name list to canonical JSON TEXT.
// A nil list is stored as [].
func marshalNames(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := ir.MarshalCanonical(names)
	if err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	return string(data), nil
}

// unmarshalNames parses a JSON array of class names.
// Returns an empty slice (not nil) for an empty array.
func unmarshalNames(data string) ([]string, error) {
	names := []string{}
	if data == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	return names, nil
}
