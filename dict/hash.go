package dict

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// StringHash is the stock hash function for string keys.
func StringHash(s string) uint64 { return xxhash.Sum64String(s) }

// BytesHash is the stock hash function for byte-slice keys.
func BytesHash(b []byte) uint64 { return xxhash.Sum64(b) }

// CaseStringHash hashes a string key ignoring ASCII case, for dictionaries
// keyed by case-insensitive identifiers such as command or field names.
func CaseStringHash(s string) uint64 {
	var (
		h   xxhash.Digest
		buf [64]byte
	)
	h.Reset()
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[n] = c
		n++
		if n == len(buf) {
			_, _ = h.Write(buf[:n])
			n = 0
		}
	}
	_, _ = h.Write(buf[:n])
	return h.Sum64()
}

// Uint64Hash mixes the bits of an integer key so that near-identical keys
// land in unrelated buckets.
func Uint64Hash(v uint64) uint64 { return mix64(v) }

// mix64 is Tomas Wang's 64-bit integer hash. Besides integer keys it is used
// to fold the iterator fingerprint.
func mix64(h uint64) uint64 {
	h = ^h + h<<21
	h ^= h >> 24
	h = h + h<<3 + h<<8
	h ^= h >> 14
	h = h + h<<2 + h<<4
	h ^= h >> 28
	h += h << 31
	return h
}

// fallbackHash covers the key types a Dict can hash without an explicit Hash
// capability. Any other key type requires one; using it without is a
// programming error.
func fallbackHash(key any) uint64 {
	switch k := key.(type) {
	case string:
		return StringHash(k)
	case []byte:
		return BytesHash(k)
	case int:
		return mix64(uint64(k))
	case int8:
		return mix64(uint64(k))
	case int16:
		return mix64(uint64(k))
	case int32:
		return mix64(uint64(k))
	case int64:
		return mix64(uint64(k))
	case uint:
		return mix64(uint64(k))
	case uint8:
		return mix64(uint64(k))
	case uint16:
		return mix64(uint64(k))
	case uint32:
		return mix64(uint64(k))
	case uint64:
		return mix64(k)
	case uintptr:
		return mix64(uint64(k))
	case float32:
		return mix64(uint64(math.Float32bits(k)))
	case float64:
		return mix64(math.Float64bits(k))
	default:
		panic(fmt.Errorf("dict: no hash capability set for key type %T", key))
	}
}
