package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainEntry is the hash domain of journal entry ids. The version suffix
// leaves room for a future algorithm change.
const DomainEntry = "ledger/entry/v1"

// Hash returns hex(SHA256(domain || 0x00 || canonical(v))).
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canon: hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, data), nil
}

// hashWithDomain separates domain and data with a null byte so that no
// domain/data split is ambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
