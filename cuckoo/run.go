package cuckoo

import (
	"context"
	"sort"

	"github.com/ethereum/go-ethereum/log"
)

// RunSolver runs the solver for every nonce in [nonce, nonce+rng): derive
// sipkeys from header (mutated per Params.MutateNonce), run the
// trim/relay/tail/find/recover pipeline, and collect any L-cycles found
// as ascending nonce proofs.
//
// ctx is polled for cancellation at round and nonce boundaries; a
// cancelled run returns whatever proofs were already found, with no
// error — cancellation means "zero solutions" for the nonce in flight,
// not a fatal error for the whole call.
func (c *SolverContext) RunSolver(ctx context.Context, header []byte, nonce, rng uint64) ([][]uint32, *Stats, error) {
	stats := &Stats{}
	var proofs [][]uint32

	for n := nonce; n < nonce+rng; n++ {
		select {
		case <-ctx.Done():
			return proofs, stats, nil
		case <-c.cancel:
			return proofs, stats, nil
		default:
		}

		found, err := c.solveOne(ctx, header, n, stats)
		if err != nil {
			if err == ErrCancelled {
				return proofs, stats, nil
			}
			log.Warn("cuckoo: solve failed for nonce, continuing range", "nonce", n, "err", err)
			stats.HasErrored = true
			continue
		}
		for _, p := range found {
			proofs = append(proofs, p)
		}
	}
	return proofs, stats, nil
}

// solveOne runs the full trim/relay/tail/find/recover pipeline for one
// header nonce.
func (c *SolverContext) solveOne(ctx context.Context, header []byte, headerNonce uint64, stats *Stats) ([][]uint32, error) {
	c.reset()
	keys := siphashKeys(c.params, header, headerNonce)
	d := c.derived

	stats.SurvivorsPerRound = stats.SurvivorsPerRound[:0]
	stats.Overflows = stats.Overflows[:0]

	seedStats := c.seed(keys, 0, d.NEdges)
	stats.Overflows = append(stats.Overflows, seedStats.Overflows...)

	src, dst := c.arenaA, c.arenaB
	srcIsPair := false

	for round := 0; round < c.params.NTrims; round++ {
		select {
		case <-ctx.Done():
			return nil, ErrCancelled
		case <-c.cancel:
			return nil, ErrCancelled
		default:
		}

		srcSide := uint64(round % 2)
		dstIsPair := round >= 2

		survivors, overflow := c.trimRound(keys, srcSide, src, dst, srcIsPair, dstIsPair)
		stats.SurvivorsPerRound = append(stats.SurvivorsPerRound, survivors)
		stats.Overflows = append(stats.Overflows, overflow)

		src, dst = dst, src
		srcIsPair = dstIsPair
		dst.Reset()
	}

	trimmed, err := c.tail(src)
	if err != nil {
		log.Debug("cuckoo: tail overflow, abandoning nonce", "nonce", headerNonce)
		return nil, nil
	}

	prov := newRelayProvenance(2 * len(trimmed))
	live := seedRelayEdges(prov, trimmed)

	relayRounds := RelayRounds(c.params.ProofSize)
	for r := 0; r < relayRounds; r++ {
		select {
		case <-ctx.Done():
			return nil, ErrCancelled
		case <-c.cancel:
			return nil, ErrCancelled
		default:
		}

		var overflow int
		live, overflow = c.relayRound(keys, live, prov, r > 0)
		stats.SurvivorsPerRound = append(stats.SurvivorsPerRound, uint64(len(live)))
		stats.Overflows = append(stats.Overflows, overflow)
	}

	edges := make([]Edge, 0, len(live))
	for _, re := range live {
		edges = prov.expand(re.id, edges)
	}

	maxPath := 8 * (int(c.params.ProofSize) + 1)
	if maxPath < 64 {
		maxPath = 64
	}
	cycles, dupes := findCycles(edges, c.params.ProofSize, c.params.MaxSols, maxPath)
	stats.DuplicateEdges = dupes

	var proofs [][]uint32
	for _, cycleNodes := range cycles {
		targets := cycleEdges(cycleNodes)
		nonces, err := c.recoverNonces(keys, targets)
		if err != nil || len(nonces) != c.params.ProofSize {
			continue
		}
		proofs = append(proofs, nonces)
		stats.Solutions++
	}
	return proofs, nil
}

// cycleEdges turns a cycle's alternating-parity node sequence into its L
// constituent (u, v) edges, normalizing each pair so u is always the even
// (side-0) node.
func cycleEdges(nodes []uint64) []Edge {
	edges := make([]Edge, len(nodes))
	for i, a := range nodes {
		b := nodes[(i+1)%len(nodes)]
		if a%2 == 0 {
			edges[i] = Edge{U: a, V: b}
		} else {
			edges[i] = Edge{U: b, V: a}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	return edges
}
