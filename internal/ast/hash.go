package ast

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainStatement separates statement fingerprints from any other hash
// computed over canonical JSON. The version suffix allows changing the
// encoding later without colliding with stored fingerprints.
const DomainStatement = "paradox/statement/v1"

// Fingerprint returns the hex SHA-256 of the canonical encoding of stmts,
// prefixed by DomainStatement and a 0x00 separator. Inputs that differ only
// in whitespace, comments or the case of keywords share a fingerprint.
func Fingerprint(stmts []Statement) (string, error) {
	canonical, err := MarshalCanonical(stmts)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainStatement))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
