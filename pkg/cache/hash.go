package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Struct fields encode in
// declaration order, so equal values always hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return Hash(data), nil
}

// hashKey builds "kind:<HashJSON(parts)>". Key parts are plain strings and
// option structs, which always encode.
func hashKey(kind string, parts ...any) string {
	h, err := HashJSON(parts)
	if err != nil {
		h = Hash(fmt.Append(nil, parts...))
	}
	return kind + ":" + h
}
