// Package cuckoo implements the bucketed edge-trimming engine for the
// Cuckatoo/Cuckarood proof-of-work: seeding candidate edges into buckets,
// leaf-pruning them across trim rounds, collapsing degree-2 paths with tag
// relay, exporting the survivors, and finding+recovering L-cycles among
// them.
package cuckoo

import "github.com/pkg/errors"

// Variant selects which endpoint oracle a Params value uses.
type Variant int

const (
	// VariantCuckatoo derives both endpoints from a parity-shifted single
	// SipHash call (node bipartition by parity).
	VariantCuckatoo Variant = iota
	// VariantCuckarood derives both endpoints from one rotated block hash
	// (node bipartition by a doubled, rotated space).
	VariantCuckarood
)

// Params holds the compile-time-ish configuration of one solver context.
// EdgeBits/ProofSize/BuckBits/IdxShift are the graph's N/L/B/S; the rest
// are derived and launch-shape tuning knobs surfaced for interface parity
// with an accelerator build (see Device).
type Params struct {
	EdgeBits uint
	ProofSize int
	BuckBits uint
	IdxShift uint
	Variant  Variant

	// Device names which accelerator to use in a GPU build; the CPU engine
	// in this module only stores it (Validate does not check it).
	Device int
	// NTrims is the number of trim rounds to run before tag relay. Must be
	// even and large enough to converge for the chosen EdgeBits.
	NTrims int
	// CPULoad is stored for interface parity with an accelerator build,
	// where it selects busy-spinning the host thread; the CPU engine does
	// not read it and always waits on worker groups with a WaitGroup.
	CPULoad bool
	// MutateNonce overwrites the last 4 bytes of the 80-byte header with
	// the little-endian nonce before hashing.
	MutateNonce bool

	// NepsA/NepsB are the arena slack factors, in 128ths, for the two
	// arenas.
	NepsA uint
	NepsB uint

	// MaxSols caps how many L-cycles the cycle finder records per nonce.
	MaxSols int
}

// Derived holds the values computed from a Params' EdgeBits, BuckBits,
// IdxShift and arena slack factors.
type Derived struct {
	NEdges   uint64
	NB       uint64
	ZBits    uint
	NZ       uint64
	MaxEdges uint64
	EdgesA   uint64
	EdgesB   uint64
}

// Derive computes Derived from p. It does not validate p; call Validate
// first.
func (p Params) Derive() Derived {
	nedges := uint64(1) << p.EdgeBits
	nb := uint64(1) << p.BuckBits
	zbits := p.EdgeBits - p.BuckBits
	nz := uint64(1) << zbits
	maxEdges := nedges >> p.IdxShift

	edgesA := nz * uint64(p.NepsA) / 128
	edgesB := nz * uint64(p.NepsB) / 128

	return Derived{
		NEdges:   nedges,
		NB:       nb,
		ZBits:    zbits,
		NZ:       nz,
		MaxEdges: maxEdges,
		EdgesA:   edgesA,
		EdgesB:   edgesB,
	}
}

// FillDefaultParams returns the recognized configuration defaults, scaled
// for the production Cuckatoo29/ProofSize42 regime.
func FillDefaultParams() Params {
	return Params{
		EdgeBits:    29,
		ProofSize:   42,
		BuckBits:    12,
		IdxShift:    12,
		Variant:     VariantCuckatoo,
		Device:      0,
		NTrims:      120,
		CPULoad:     true,
		MutateNonce: true,
		NepsA:       133,
		NepsB:       85,
		MaxSols:     32,
	}
}

// Validate checks the invariants a Params value must satisfy before a
// SolverContext can be built from it.
func (p Params) Validate() error {
	if p.EdgeBits < 8 || p.EdgeBits > 31 {
		// Endpoints are EdgeBits+1 bits wide and must fit in 32 bits each
		// so a trimmed edge packs into one uint64 arena entry once rounds
		// widen from bare nonces to endpoint pairs.
		return errors.Errorf("edge bits %d out of supported range [8,31]", p.EdgeBits)
	}
	if p.BuckBits == 0 || p.BuckBits >= p.EdgeBits {
		return errors.Errorf("bucket bits %d must be in (0, edge bits %d)", p.BuckBits, p.EdgeBits)
	}
	if p.ProofSize <= 0 || p.ProofSize%2 != 0 {
		return errors.Errorf("proof size %d must be a positive even number", p.ProofSize)
	}
	if p.NTrims <= 0 || p.NTrims%2 != 0 {
		return errors.Errorf("ntrims %d must be a positive even number", p.NTrims)
	}
	if p.IdxShift == 0 || p.IdxShift >= p.EdgeBits {
		return errors.Errorf("idx shift %d must be in (0, edge bits %d)", p.IdxShift, p.EdgeBits)
	}
	if p.NepsA == 0 || p.NepsB == 0 {
		return errors.New("arena slack factors must be positive")
	}
	if p.MaxSols <= 0 {
		return errors.New("max sols must be positive")
	}
	if p.Variant != VariantCuckatoo && p.Variant != VariantCuckarood {
		return errors.Errorf("unknown variant %d", p.Variant)
	}
	return nil
}
