package bloom

import (
	"crypto/md5" //nolint:gosec // MD5 seeds bit positions, not security.
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Digest scheme names accepted by SchemeByName.
const (
	SchemeCrypto = "crypto"
	SchemeXXH3   = "xxh3"
)

// digestPrefixLen is the number of digest bytes folded into each base hash.
const digestPrefixLen = 8

// DigestScheme derives the two base hash values combined by the
// double-hashing position formula. Implementations must be deterministic and
// unseeded: equal input bytes yield the same pair in every process, so an
// element's position set survives restarts.
type DigestScheme interface {
	// Name identifies the scheme in summaries and configuration.
	Name() string

	// Pair computes two independent 64-bit hash values of data.
	Pair(data []byte) (h1, h2 uint64)
}

// CryptoScheme is the default digest pair: two distinct fixed algorithms, one
// 128-bit (MD5) and one 256-bit (SHA-256), each contributing the big-endian
// first 8 bytes of its digest. Collision resistance is irrelevant here; the
// cryptographic digests are used for their distribution quality.
type CryptoScheme struct{}

// Name implements DigestScheme.Name.
func (CryptoScheme) Name() string {
	return SchemeCrypto
}

// Pair implements DigestScheme.Pair by splitting MD5 and SHA-256 prefixes.
func (CryptoScheme) Pair(data []byte) (h1, h2 uint64) {
	d1 := md5.Sum(data) //nolint:gosec // MD5 seeds bit positions, not security.
	d2 := sha256.Sum256(data)

	h1 = binary.BigEndian.Uint64(d1[:digestPrefixLen])
	h2 = binary.BigEndian.Uint64(d2[:digestPrefixLen])

	return h1, h2
}

// XXH3Scheme is the non-cryptographic fast path: the 128-bit xxh3 digest
// split into its two 64-bit halves.
type XXH3Scheme struct{}

// Name implements DigestScheme.Name.
func (XXH3Scheme) Name() string {
	return SchemeXXH3
}

// Pair implements DigestScheme.Pair using a single xxh3 evaluation.
func (XXH3Scheme) Pair(data []byte) (h1, h2 uint64) {
	sum := xxh3.Hash128(data)

	return sum.Hi, sum.Lo
}

// SchemeByName resolves a digest scheme from its configuration name.
func SchemeByName(name string) (DigestScheme, error) {
	switch name {
	case SchemeCrypto:
		return CryptoScheme{}, nil
	case SchemeXXH3:
		return XXH3Scheme{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown digest scheme %q", ErrInvalidParameter, name)
	}
}

// hashPair runs data through the scheme and prepares the pair for position
// mixing. The second hash is forced odd so gcd(h2, m) avoids degenerate
// cycling.
func hashPair(scheme DigestScheme, data []byte) (h1, h2 uint64) {
	h1, h2 = scheme.Pair(data)
	h2 |= 1

	return h1, h2
}
