package cuckoo

import "github.com/Qitmeer/qitmeer-cuckoo/siphash"

// Endpoint computes endpoint(keys, nonce, side): the low EdgeBits bits of
// a keyed hash, shifted left by one and OR'd with the side bit so that
// side-0 endpoints are even and side-1 endpoints are odd (the bipartition
// parity underlying the sibling relation).
//
// Two variants are supported. Cuckatoo hashes 2*nonce+side directly.
// Cuckarood hashes the nonce through a rotated block hash and reads each
// side out of one half of the resulting 64-bit word; both sides come from
// the same block-hash value, which each call recomputes (64 SipHash
// evaluations per call).
func Endpoint(p Params, d Derived, keys siphash.Keys, nonce uint64, side uint64) uint64 {
	mask := d.NEdges - 1
	switch p.Variant {
	case VariantCuckarood:
		h := siphash.Block(keys, nonce, 25, false)
		var half uint64
		if side == 0 {
			half = h & 0xffffffff
		} else {
			half = h >> 32
		}
		return ((half & mask) << 1) | side
	default:
		h := siphash.PRF(&keys.V, 2*nonce+side)
		return ((h & mask) << 1) | side
	}
}

// edgeBucket returns the bucket index for raw node id u under the current
// BuckBits: the high BuckBits bits of u, above its ZBits low bits.
func edgeBucket(d Derived, u uint64) uint64 {
	return u >> d.ZBits
}

// edgeZ returns the low ZBits of raw node id u, i.e. its offset within its
// bucket's bitmap.
func edgeZ(d Derived, u uint64) uint64 {
	return u & (d.NZ - 1)
}

// rawNode strips the bipartition parity bit Endpoint folds into the low
// bit of its result, recovering the plain EdgeBits-wide node id that
// bucket/Z math is sized for. Endpoint packs ((raw<<1)|side), so this is
// exact regardless of side: two edges sharing a graph node have equal
// rawNode values, which is what the sibling/degree screens in trim.go and
// relay.go actually need — keying that screen off the full,
// parity-shifted endpoint instead (whose low bit is constant across one
// mark/emit pass) would make the sibling test unsatisfiable.
func rawNode(endpoint uint64) uint64 {
	return endpoint >> 1
}
