package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/relalg/internal/value"
)

// marshalNames converts attribute or key names to JSON TEXT for storage.
// HTML escaping is disabled so names are stored as written.
func marshalNames(names []string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(names); err != nil {
		return "", fmt.Errorf("marshal names: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// marshalDomains converts domains to a JSON array of domain names.
func marshalDomains(domains []value.Domain) (string, error) {
	data, err := json.Marshal(domains)
	if err != nil {
		return "", fmt.Errorf("marshal domains: %w", err)
	}
	return string(data), nil
}

// marshalTuple converts a tuple to canonical JSON TEXT.
func marshalTuple(t value.Tuple) (string, error) {
	data, err := value.MarshalTuple(t)
	if err != nil {
		return "", fmt.Errorf("marshal tuple: %w", err)
	}
	return string(data), nil
}

func unmarshalNames(data string) ([]string, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal names: %w", err)
	}
	return names, nil
}

// unmarshalDomains parses a JSON array of domain names. Unknown names are
// rejected by value.Domain's UnmarshalText.
func unmarshalDomains(data string) ([]value.Domain, error) {
	var domains []value.Domain
	if err := json.Unmarshal([]byte(data), &domains); err != nil {
		return nil, fmt.Errorf("unmarshal domains: %w", err)
	}
	return domains, nil
}
