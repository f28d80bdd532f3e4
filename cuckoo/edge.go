package cuckoo

// packPair encodes a (u, v) endpoint pair into one arena entry: u in the
// high 32 bits, v in the low 32 bits. Both u and v are at most EdgeBits+1
// bits wide (Params.Validate enforces EdgeBits <= 31), so they never
// collide.
func packPair(u, v uint64) uint64 {
	return (u << 32) | (v & 0xffffffff)
}

// unpackPair is the inverse of packPair.
func unpackPair(e uint64) (u, v uint64) {
	return e >> 32, e & 0xffffffff
}

// pairSide returns the endpoint of pair e on the given side: side 0 is
// always the value packed in the high word (Endpoint(nonce, 0)), side 1
// always the low word (Endpoint(nonce, 1)), regardless of which side the
// current round is keying on.
func pairSide(e uint64, side uint64) uint64 {
	if side == 0 {
		return e >> 32
	}
	return e & 0xffffffff
}

