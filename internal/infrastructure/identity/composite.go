package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Generator derives stable sub-document ids. The same inputs always
// produce the same id, so a rerun overwrites rather than duplicates.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (Generator) CompositeID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}
