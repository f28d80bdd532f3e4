// Package siphash implements the keyed SipHash-2-4 pseudo-random function
// used to expand a header+nonce into the endpoints of the implicit
// bipartite graph the Cuckatoo/Cuckarood proof-of-work is defined over.
//
// Every function in this package is pure: given the same keys and inputs it
// always returns the same value, with no shared mutable state.
package siphash

import "encoding/binary"

// Keys holds the four 64-bit SipHash round keys derived from a header
// digest. Keys are immutable once derived.
type Keys struct {
	V [4]uint64
}

// NewKeys derives the SipHash round keys from a 32-byte digest, matching
// the key schedule used throughout the Cuckoo family (k0/k1 read as the
// little-endian words in the digest's first 16 bytes, then XORed into the
// standard SipHash initialization constants). The digest's last 16 bytes
// are not used.
func NewKeys(digest []byte) Keys {
	k0 := binary.LittleEndian.Uint64(digest[0:8])
	k1 := binary.LittleEndian.Uint64(digest[8:16])
	return Keys{V: [4]uint64{
		k0 ^ 0x736f6d6570736575,
		k1 ^ 0x646f72616e646f6d,
		k0 ^ 0x6c7967656e657261,
		k1 ^ 0x7465646279746573,
	}}
}

// PRF computes SipHash-2-4(keys, b) from the already-initialized round
// state, i.e. the 2-compression/4-finalization variant used by both the
// seeder and the per-nonce recovery pass.
func PRF(v *[4]uint64, b uint64) uint64 {
	v0, v1, v2, v3 := v[0], v[1], v[2], v[3]
	v3 ^= b

	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)

	v0 ^= b
	v2 ^= 0xff

	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)
	sipRound(&v0, &v1, &v2, &v3)

	return v0 ^ v1 ^ v2 ^ v3
}

func sipRound(v0, v1, v2, v3 *uint64) {
	*v0 += *v1
	*v1 = rotl(*v1, 13)
	*v1 ^= *v0
	*v0 = rotl(*v0, 32)

	*v2 += *v3
	*v3 = rotl(*v3, 16)
	*v3 ^= *v2

	*v0 += *v3
	*v3 = rotl(*v3, 21)
	*v3 ^= *v0

	*v2 += *v1
	*v1 = rotl(*v1, 17)
	*v1 ^= *v2
	*v2 = rotl(*v2, 32)
}

func rotl(val uint64, shift uint8) uint64 {
	return (val << shift) | (val >> (64 - shift))
}

// blockBits/blockSize/blockMask implement the Cuckarood "block hashing"
// trick: hashing a whole 64-hash block at a time and xoring most of it into
// every member forces an attacker computing one endpoint to pay for the
// whole block, which is what lets the rotated finalization (21 is the
// standard SipHash rotation; the Cuckarood endpoint oracle passes 25)
// differ between node sides without a second keyed context.
const (
	blockBits uint = 6
	blockSize uint = 1 << blockBits
	blockMask uint = blockSize - 1
)

// Block computes one rotated-finalization SipHash24 block hash at nonce,
// xored with other hashes of its 64-entry block. rotE is the finalization
// rotation amount for v3 (25 for Cuckarood, 21 for standard SipHash).
// With xorAll, nonce's hash is xored with every hash after its position in
// the block; otherwise only with the block's final (tail) hash, and the
// final slot returns its own hash unchanged.
func Block(keys Keys, nonce uint64, rotE uint8, xorAll bool) uint64 {
	base := nonce &^ uint64(blockMask)
	idx := nonce & uint64(blockMask)

	hashes := make([]uint64, blockSize)
	for i := uint64(0); i < uint64(blockSize); i++ {
		hashes[i] = blockHash(keys.V, base+i, rotE)
	}

	xor := hashes[idx]
	from := idx + 1
	if !xorAll && idx != uint64(blockMask) {
		from = uint64(blockMask)
	}
	for i := from; i < uint64(blockSize); i++ {
		xor ^= hashes[i]
	}
	return xor
}

func blockHash(v [4]uint64, nonce uint64, rotE uint8) uint64 {
	v0, v1, v2, v3 := v[0], v[1], v[2], v[3]

	v3 ^= nonce
	blockRound(&v0, &v1, &v2, &v3, rotE)
	blockRound(&v0, &v1, &v2, &v3, rotE)

	v0 ^= nonce
	v2 ^= 0xff

	for i := 0; i < 4; i++ {
		blockRound(&v0, &v1, &v2, &v3, rotE)
	}

	return (v0 ^ v1) ^ (v2 ^ v3)
}

func blockRound(v0, v1, v2, v3 *uint64, rotE uint8) {
	*v0 += *v1
	*v2 += *v3
	*v1 = rotl(*v1, 13)
	*v3 = rotl(*v3, 16)
	*v1 ^= *v0
	*v3 ^= *v2
	*v0 = rotl(*v0, 32)
	*v2 += *v1
	*v0 += *v3
	*v1 = rotl(*v1, 17)
	*v3 = rotl(*v3, rotE)
	*v1 ^= *v2
	*v3 ^= *v0
	*v2 = rotl(*v2, 32)
}
