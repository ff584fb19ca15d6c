package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON returns the digest of v's JSON encoding. Records hash this way,
// so two inputs with the same rows in the same order share a key.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

// derivedKey builds "kind:digest" over the JSON of parent and opts. The
// options types only hold plain fields, so encoding cannot fail.
func derivedKey(kind, parent string, opts any) string {
	data, _ := json.Marshal([2]any{parent, opts})
	return kind + ":" + Hash(data)
}
