package cuckoo

import (
	"sync"

	"github.com/Qitmeer/qitmeer-cuckoo/siphash"
)

// trimRound performs one leaf-pruning pass over every bucket of src,
// writing survivors into dst keyed by the opposite endpoint's bucket.
//
// Storage convention: once an edge has been widened into a pair (see
// edge.go), it is always stored as packPair(Endpoint(nonce,0),
// Endpoint(nonce,1)) — a fixed side-0/side-1 layout independent of which
// side a given round happens to be keying on, rather than tracking
// "whichever side this round just bucketed by". Either layout retains
// exactly the same edge set each round, since the mark/emit passes only
// ever need endpoint(e, side) for an explicit side, and carrying side
// explicitly is easier to reason about than overloading storage order.
//
// srcIsPair/dstIsPair select which of the three round shapes this call
// implements: nonce->nonce (rounds 0/1), nonce->pair (round 2, the
// widening round), or pair->pair (rounds >= 3).
func (c *SolverContext) trimRound(keys siphash.Keys, srcSide uint64, src, dst *Arena, srcIsPair, dstIsPair bool) (survivors uint64, overflow int) {
	d := c.derived
	nb := d.NB

	var wg sync.WaitGroup
	survivorCounts := make([]uint64, c.ncpu)
	overflowCounts := make([]int, c.ncpu)

	step := (nb + uint64(c.ncpu) - 1) / uint64(c.ncpu)
	if step == 0 {
		step = 1
	}
	for j := 0; j < c.ncpu; j++ {
		lo := uint64(j) * step
		hi := lo + step
		if hi > nb {
			hi = nb
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(j int, lo, hi uint64) {
			defer wg.Done()
			bm := c.bitmaps[j]
			for b := lo; b < hi; b++ {
				entries := src.Bucket(b)

				// Mark pass: set bit z for every entry's keyed-side endpoint,
				// keyed on the raw pre-parity node id. The full
				// parity-shifted endpoint is unusable here: every entry in
				// one mark/emit pass shares the same srcSide, so its low
				// (parity) bit is constant across the whole bucket and the
				// sibling flip below could never be satisfied.
				bm.clear()
				for _, e := range entries {
					u := c.endpointOf(keys, e, srcSide, srcIsPair)
					bm.set(edgeZ(d, rawNode(u)))
				}

				// Emit pass: retain entries whose sibling bit is also set.
				for _, e := range entries {
					u := c.endpointOf(keys, e, srcSide, srcIsPair)
					z := edgeZ(d, rawNode(u))
					if !bm.isSet(sibling(z)) {
						continue
					}

					other := c.endpointOf(keys, e, 1-srcSide, srcIsPair)
					dstBucket := edgeBucket(d, rawNode(other))

					val := e
					if !srcIsPair && dstIsPair {
						val = packPair(
							c.endpointOf(keys, e, 0, false),
							c.endpointOf(keys, e, 1, false),
						)
					}

					slot, ok := dst.Reserve(dstBucket)
					if !ok {
						overflowCounts[j]++
						continue
					}
					dst.Write(dstBucket, slot, val)
					survivorCounts[j]++
				}
			}
		}(j, lo, hi)
	}
	wg.Wait()

	for j := 0; j < c.ncpu; j++ {
		survivors += survivorCounts[j]
		overflow += overflowCounts[j]
	}
	return survivors, overflow
}

// endpointOf returns endpoint(e, side): a fresh SipHash computation if e is
// a bare nonce, or a lookup into the already-computed pair otherwise.
func (c *SolverContext) endpointOf(keys siphash.Keys, e, side uint64, isPair bool) uint64 {
	if isPair {
		return pairSide(e, side)
	}
	return Endpoint(c.params, c.derived, keys, e, side)
}
