package pow

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"
)

// Cyclehash returns the hex-encoded Blake2b-256 fingerprint of a proof's
// nonces, sorted ascending first so equivalent proofs (same cycle, nonces
// given out of order) hash identically.
func Cyclehash(proof Proof) string {
	nonces := make([]uint32, len(proof.Nonces))
	copy(nonces, proof.Nonces)
	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })

	buf := make([]byte, 4*len(nonces))
	for i, n := range nonces {
		binary.LittleEndian.PutUint32(buf[4*i:], n)
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}
