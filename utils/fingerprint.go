package utils

import "hash/fnv"

// FingerprintString hashes statement text into a cache key.
func FingerprintString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
