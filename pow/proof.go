// Package pow ties a Cuckatoo/Cuckarood proof of nonces to a block header:
// validating a proof's shape, recomputing its fingerprint, and verifying
// that it is in fact a single simple cycle over the header's graph.
package pow

import (
	"github.com/pkg/errors"

	"github.com/Qitmeer/qitmeer-cuckoo/cuckoo"
)

// Proof is an ascending-sorted set of nonces claimed to form an L-cycle
// in the graph defined by some header and Params.
type Proof struct {
	Params cuckoo.Params
	Nonces []uint32
}

// NewProof copies nonces into a Proof without sorting or validating them;
// callers that build a Proof from an untrusted source should call
// Validate before relying on it.
func NewProof(p cuckoo.Params, nonces []uint32) Proof {
	ns := make([]uint32, len(nonces))
	copy(ns, nonces)
	return Proof{Params: p, Nonces: ns}
}

// Validate checks a proof's shape: the right number of nonces, strictly
// ascending (this also rules out duplicates), and each one in range for
// the proof's edge bits.
func (p Proof) Validate() error {
	if len(p.Nonces) != p.Params.ProofSize {
		return errors.Errorf("proof has %d nonces, want %d", len(p.Nonces), p.Params.ProofSize)
	}
	limit := uint32(1) << p.Params.EdgeBits
	for i, n := range p.Nonces {
		if n >= limit {
			return errors.Errorf("nonce %d at position %d exceeds edge bits %d", n, i, p.Params.EdgeBits)
		}
		if i > 0 && p.Nonces[i-1] >= n {
			return errors.New("proof nonces must be strictly ascending")
		}
	}
	return nil
}
