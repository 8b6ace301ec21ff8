package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ConfigHash returns the canonical SHA-256 of a classifier config.
// The config is marshaled, decoded into a map and re-marshaled so the
// digest is independent of field declaration order.
func ConfigHash(cfg ClassifierConfig) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal classifier config: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("decode classifier config: %w", err)
	}

	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("canonicalize classifier config: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
