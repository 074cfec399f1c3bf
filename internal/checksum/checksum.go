package checksum

import (
	"crypto/sha256"
	"fmt"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateContentHash returns the hex SHA-256 of applyLink|title|posted|content.
func (g *Generator) GenerateContentHash(applyLink, title, posted, content string) string {
	payload := fmt.Sprintf("%s|%s|%s|%s", applyLink, title, posted, content)
	hash := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%x", hash)
}

func (g *Generator) VerifyContentHash(expectedHash, applyLink, title, posted, content string) bool {
	return g.GenerateContentHash(applyLink, title, posted, content) == expectedHash
}
