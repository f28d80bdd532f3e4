package cuckoo

import (
	"sync"

	"github.com/Qitmeer/qitmeer-cuckoo/siphash"
)

// seed enumerates every nonce in [offset, offset+count), computes its
// side-0 endpoint, and scatters it into arenaA by that endpoint's high
// BuckBits bits: one goroutine per CPU, each owning a disjoint slice of
// the nonce range, joined with a WaitGroup at the round boundary.
//
// Nonce 0 is skipped: this keeps a legitimate edge from ever being
// silently indistinguishable from an empty arena slot.
//
// Nonces are written straight to their target bucket rather than batched
// into a per-bucket scratch buffer first; that batching exists on an
// accelerator to amortize memory-bus transactions, which has no analogue
// on the CPU.
func (c *SolverContext) seed(keys siphash.Keys, offset, count uint64) *Stats {
	stats := &Stats{}
	start := offset
	if start == 0 {
		start = 1
	}
	end := offset + count

	var wg sync.WaitGroup
	overflow := make([]int, c.ncpu)
	step := (end - start + uint64(c.ncpu) - 1) / uint64(c.ncpu)
	if step == 0 {
		step = 1
	}
	for j := 0; j < c.ncpu; j++ {
		lo := start + uint64(j)*step
		hi := lo + step
		if hi > end {
			hi = end
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(j int, lo, hi uint64) {
			defer wg.Done()
			for n := lo; n < hi; n++ {
				u := Endpoint(c.params, c.derived, keys, n, 0)
				b := edgeBucket(c.derived, rawNode(u))
				slot, ok := c.arenaA.Reserve(b)
				if !ok {
					overflow[j]++
					continue
				}
				c.arenaA.Write(b, slot, n)
			}
		}(j, lo, hi)
	}
	wg.Wait()

	total := 0
	for _, n := range overflow {
		total += n
	}
	stats.Overflows = append(stats.Overflows, total)
	return stats
}
