package render

import (
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// DeriveKey maps a named parameter set to a deterministic cache key.
// Parameter order never matters: pairs are sorted by name before hashing.
// The hex digest is safe to use directly as a filename.
func DeriveKey(params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	h, _ := blake2b.New256(nil)
	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{'='})
		h.Write([]byte(params[name]))
		// NUL terminates each pair so adjacent values cannot collide
		// across pair boundaries.
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
