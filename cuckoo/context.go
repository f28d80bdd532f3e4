package cuckoo

import (
	"runtime"

	"github.com/Qitmeer/qitmeer-cuckoo/siphash"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// ErrInitFailed is returned by NewSolverContext when the arenas or
// recovery buffers could not be allocated.
var ErrInitFailed = errors.New("cuckoo: solver context initialization failed")

// SolverContext owns the arenas, recovery buffers, and scratch state for
// one solver. It is built once and reused across many solve(nonce) calls
// by zeroing and ping-ponging between its two arenas.
//
// The last-error reason lives as a field here rather than a package-level
// global, and each nonce's siphash keys are passed explicitly to every
// pass. A context runs one solve at a time: every solve resets and reuses
// the same arenas and bitmaps, so concurrent RunSolver calls on one
// context are not safe.
type SolverContext struct {
	params  Params
	derived Derived

	arenaA *Arena
	arenaB *Arena

	bitmaps []*bitmap // one per worker, reused across buckets/rounds

	cancel  chan struct{}
	stopped bool

	lastError error

	ncpu int
}

// NewSolverContext allocates a solver context for p.
func NewSolverContext(p Params) (sc *SolverContext, err error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid params")
	}
	d := p.Derive()

	ncpu := runtime.NumCPU()
	if ncpu > 32 {
		ncpu = 32
	}
	if ncpu < 1 {
		ncpu = 1
	}

	ctx := &SolverContext{
		params:  p,
		derived: d,
		cancel:  make(chan struct{}),
		ncpu:    ncpu,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("cuckoo: arena allocation panicked", "err", r)
			err = errors.Wrapf(ErrInitFailed, "%v", r)
			ctx.lastError = err
			sc = ctx
		}
	}()

	ctx.arenaA = NewArena(d.NB, d.EdgesA)
	ctx.arenaB = NewArena(d.NB, d.EdgesB)

	ctx.bitmaps = make([]*bitmap, ncpu)
	for i := range ctx.bitmaps {
		ctx.bitmaps[i] = newBitmap(d.NZ)
	}

	return ctx, nil
}

// Close releases a solver context. The CPU arenas are ordinary Go slices,
// so Close only exists for interface parity with a build that frees
// device memory here.
func (c *SolverContext) Close() {
	c.arenaA = nil
	c.arenaB = nil
	c.bitmaps = nil
}

// Stop requests cancellation of any in-flight RunSolver call. It is safe
// to call concurrently with RunSolver and idempotent.
func (c *SolverContext) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.cancel)
}

// Err returns the last init-time error recorded on the context.
func (c *SolverContext) Err() error {
	return c.lastError
}

func (c *SolverContext) reset() {
	c.arenaA.Reset()
	c.arenaB.Reset()
}

// siphashKeys derives the SipHash round keys for one nonce's header,
// overwriting the header's trailing nonce field first if MutateNonce is
// enabled.
func siphashKeys(p Params, header []byte, nonce uint64) siphash.Keys {
	h := make([]byte, len(header))
	copy(h, header)
	if p.MutateNonce && len(h) >= 4 {
		h[len(h)-4] = byte(nonce)
		h[len(h)-3] = byte(nonce >> 8)
		h[len(h)-2] = byte(nonce >> 16)
		h[len(h)-1] = byte(nonce >> 24)
	}
	digest := blake2b.Sum256(h)
	return siphash.NewKeys(digest[:])
}

// DeriveKeys is the exported form of siphashKeys, letting callers outside
// this package (proof verification, in particular) recompute the same
// SipHash round keys a solve for this header/nonce pair used, without
// constructing a full SolverContext.
func DeriveKeys(p Params, header []byte, nonce uint64) siphash.Keys {
	return siphashKeys(p, header, nonce)
}
