package loader

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// IsJWT reports whether input is a single JWT: three base64url parts, the
// first two holding JSON objects. A "Bearer " prefix is ignored.
func IsJWT(input string) bool {
	parts, ok := jwtParts(input)
	if !ok {
		return false
	}
	for _, p := range parts[:2] {
		decoded, err := base64.RawURLEncoding.DecodeString(p)
		if err != nil || !json.Valid(decoded) || !strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
			return false
		}
	}
	_, err := base64.RawURLEncoding.DecodeString(parts[2])
	return err == nil
}

func jwtParts(input string) ([]string, bool) {
	input = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), "Bearer "))
	parts := strings.Split(input, ".")
	if len(parts) != 3 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

// loadJWT shows a token as one row per claim, header claims first. The
// signature is not verified.
func (b *builder) loadJWT(input string) error {
	parts, ok := jwtParts(input)
	if !ok {
		return fmt.Errorf("invalid JWT: expected 3 non-empty parts")
	}
	for i, section := range []string{"header", "payload"} {
		decoded, err := base64.RawURLEncoding.DecodeString(parts[i])
		if err != nil {
			return fmt.Errorf("invalid JWT %s: %w", section, err)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(decoded, &doc); err != nil {
			return fmt.Errorf("invalid JWT %s JSON: %w", section, err)
		}
		v, keys, err := nodeValue(&doc)
		if err != nil {
			return fmt.Errorf("invalid JWT %s: %w", section, err)
		}
		claims, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("invalid JWT %s: not an object", section)
		}
		for _, k := range keys {
			b.add(Record{"section": section, "claim": k, ScalarKey: claims[k]}, []string{"section", "claim", ScalarKey})
		}
	}
	return nil
}
