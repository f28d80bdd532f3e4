package cuckoo

import (
	"sort"
	"sync"

	"github.com/Qitmeer/qitmeer-cuckoo/siphash"
)

// recoverNonces takes the L edges that close a cycle and enumerates every
// nonce in parallel to find which nonce produced each edge: per-CPU
// nonce-range partitioning, membership-testing each candidate edge against
// the target set, and a mutex-guarded append collecting exactly ProofSize
// matches before every worker stops.
func (c *SolverContext) recoverNonces(keys siphash.Keys, targets []Edge) ([]uint32, error) {
	d := c.derived
	want := make(map[uint64]struct{}, len(targets))
	for _, e := range targets {
		want[packPair(e.U, e.V)] = struct{}{}
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		answer = make([]uint32, 0, len(targets))
	)

	step := (d.NEdges + uint64(c.ncpu) - 1) / uint64(c.ncpu)
	if step == 0 {
		step = 1
	}
	for j := 0; j < c.ncpu; j++ {
		lo := uint64(j) * step
		if lo == 0 {
			lo = 1 // nonce 0 is excluded
		}
		hi := uint64(j)*step + step
		if hi > d.NEdges {
			hi = d.NEdges
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi uint64) {
			defer wg.Done()
			for n := lo; n < hi; n++ {
				mu.Lock()
				done := len(answer) >= len(targets)
				mu.Unlock()
				if done {
					return
				}
				u := Endpoint(c.params, d, keys, n, 0)
				v := Endpoint(c.params, d, keys, n, 1)
				if _, ok := want[packPair(u, v)]; !ok {
					continue
				}
				mu.Lock()
				if len(answer) < len(targets) {
					answer = append(answer, uint32(n))
				}
				mu.Unlock()
			}
		}(lo, hi)
	}
	wg.Wait()

	sort.Slice(answer, func(i, j int) bool { return answer[i] < answer[j] })
	return answer, nil
}
