package cuckoo

import "github.com/pkg/errors"

// ErrTailOverflow is returned internally (and logged, not propagated as a
// fatal error) when the tail export produces more than MaxEdges
// survivors. The solve is abandoned for that nonce only; range iteration
// continues.
var ErrTailOverflow = errors.New("cuckoo: tail export exceeded MaxEdges")

// ErrCancelled is returned internally when the cooperative cancellation
// flag (SolverContext.cancel) is observed at a round boundary. RunSolver
// treats it as "zero solutions for this nonce".
var ErrCancelled = errors.New("cuckoo: solve cancelled")

// Stats carries per-solve observer data: survivor counts per round so
// tests can assert monotonic decrease and detect capacity regressions.
// SurvivorsPerRound, Overflows and DuplicateEdges describe the most
// recently solved nonce; Solutions and HasErrored cover the whole
// RunSolver call.
type Stats struct {
	// SurvivorsPerRound[i] is the number of edges retained after trim
	// round i for i < NTrims; the entries after those are the number of
	// relayed edges left after each relay round.
	SurvivorsPerRound []uint64
	// Overflows[0] counts the nonces the seeder dropped because their
	// bucket was full; Overflows[i] for i >= 1 counts the edges dropped for
	// a full destination bucket during round i-1 (trim rounds first, then
	// relay rounds, which never drop).
	Overflows []int
	// DuplicateEdges is the number of duplicate (u,v) pairs the cycle
	// finder deduplicated at insertion.
	DuplicateEdges int
	// Solutions is the number of L-cycles found across every nonce of the
	// run.
	Solutions int
	// HasErrored records whether any nonce in the run failed non-fatally.
	HasErrored bool
}
