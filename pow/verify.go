package pow

import (
	"github.com/pkg/errors"

	"github.com/Qitmeer/qitmeer-cuckoo/cuckoo"
)

// ErrInvalidProof wraps every rejection Verify can produce; callers that
// only care about accept/reject can test with errors.Is(err,
// ErrInvalidProof).
var ErrInvalidProof = errors.New("pow: invalid proof")

// Verify recomputes every nonce's endpoints under header/nonce's derived
// keys and confirms the proof's nonces form a single simple L-cycle: every
// endpoint value must occur exactly twice across the proof (both times on
// the same side, from two different nonces), and walking the bipartite
// adjacency built from those endpoints
// must return to the start after visiting exactly ProofSize nonces.
//
// An xor-based degree check (every endpoint must pair with exactly one
// other proof nonce) is followed by a traversal that fails on a dead end
// or a cycle shorter than ProofSize.
func Verify(p cuckoo.Params, header Header, headerNonce uint64, proof Proof) error {
	if err := proof.Validate(); err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}

	d := p.Derive()
	keys := cuckoo.DeriveKeys(p, []byte(header), headerNonce)

	n := len(proof.Nonces)
	endpoints := make([]uint64, 2*n)
	var xorU, xorV uint64
	for i, nonce := range proof.Nonces {
		u := cuckoo.Endpoint(p, d, keys, uint64(nonce), 0)
		v := cuckoo.Endpoint(p, d, keys, uint64(nonce), 1)
		endpoints[2*i] = u
		endpoints[2*i+1] = v
		xorU ^= u
		xorV ^= v
	}
	if xorU != 0 {
		return errors.Wrap(ErrInvalidProof, "side-0 endpoints do not cancel out")
	}
	if xorV != 0 {
		return errors.Wrap(ErrInvalidProof, "side-1 endpoints do not cancel out")
	}

	visited := 0
	i := 0
	for {
		next := -1
		for k := (i + 2) % (2 * n); k != i; k = (k + 2) % (2 * n) {
			if endpoints[k] == endpoints[i] {
				if next != -1 {
					return errors.Wrap(ErrInvalidProof, "an endpoint is shared by more than two nonces")
				}
				next = k
			}
		}
		if next == -1 {
			return errors.Wrap(ErrInvalidProof, "an endpoint has no partner")
		}
		i = next ^ 1
		visited++
		if i == 0 {
			break
		}
	}
	if visited != n {
		return errors.Wrap(ErrInvalidProof, "proof is not a single cycle of the expected length")
	}
	return nil
}
