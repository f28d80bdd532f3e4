package cuckoo

import "github.com/Qitmeer/qitmeer-cuckoo/siphash"

// Tagged-edge bit layout: each 32-bit half packs a ZBits-wide node offset
// plus a provenance tag, with the top bit reserved as COPYFLAG so
// tag/z/COPYFLAG never collide. TagBits is whatever is left over in the
// low 31 bits (bit 31 is always COPYFLAG) after ZBits.
func tagBits(d Derived) uint {
	return 31 - uint(d.ZBits)
}

const copyFlagBit = uint64(1) << 31

// packTaggedHalf packs (tag, z, copy) into one 32-bit tagged-edge half,
// masking tag to tagBits wide so it can never bleed into COPYFLAG.
func packTaggedHalf(d Derived, tag, z uint64, copy bool) uint64 {
	tagMask := uint64(1)<<tagBits(d) - 1
	v := ((tag & tagMask) << d.ZBits) | (z & (d.NZ - 1))
	if copy {
		v |= copyFlagBit
	}
	return v
}

// unpackTaggedHalf is the inverse of packTaggedHalf.
func unpackTaggedHalf(d Derived, v uint64) (tag, z uint64, copy bool) {
	copy = v&copyFlagBit != 0
	z = v & (d.NZ - 1)
	tag = (v &^ copyFlagBit) >> d.ZBits
	return tag, z, copy
}

// RelayRounds returns the number of tag-relay rounds for a given proof
// size: ceil(L/2) - 1.
func RelayRounds(proofSize int) int {
	n := (proofSize + 1) / 2
	return n - 1
}

// relayProvenance records, for every edge a relay round ever synthesizes,
// the real edges it collapsed: a leaf id names one genuine post-trim edge
// straight out of the tail pass; a merged id names the two ids (leaf or
// merged) whose free ends it joined. expand walks that tree down to its
// leaves, which is how a relayed edge surviving to the final round turns
// back into the real, nonce-bearing edges nonce recovery needs — the
// middle node a relay round eliminates is never reconstructed by value,
// only by which two edges shared it.
type relayProvenance struct {
	isLeaf      []bool
	leaf        []Edge
	left, right []uint64
}

func newRelayProvenance(capacity int) *relayProvenance {
	return &relayProvenance{
		isLeaf: make([]bool, 0, capacity),
		leaf:   make([]Edge, 0, capacity),
		left:   make([]uint64, 0, capacity),
		right:  make([]uint64, 0, capacity),
	}
}

func (p *relayProvenance) newLeaf(e Edge) uint64 {
	id := uint64(len(p.isLeaf))
	p.isLeaf = append(p.isLeaf, true)
	p.leaf = append(p.leaf, e)
	p.left = append(p.left, 0)
	p.right = append(p.right, 0)
	return id
}

func (p *relayProvenance) merge(a, b uint64) uint64 {
	id := uint64(len(p.isLeaf))
	p.isLeaf = append(p.isLeaf, false)
	p.leaf = append(p.leaf, Edge{})
	p.left = append(p.left, a)
	p.right = append(p.right, b)
	return id
}

// expand appends every genuine edge id stands for onto into.
func (p *relayProvenance) expand(id uint64, into []Edge) []Edge {
	if p.isLeaf[id] {
		return append(into, p.leaf[id])
	}
	into = p.expand(p.left[id], into)
	return p.expand(p.right[id], into)
}

// relayEdge is one surviving candidate between relay rounds: the
// coordinates of its two free ends, the provenance id tracking which
// real edges it stands for, and the wire-format tagged word it arrived
// with — the tag propagated from whichever collapse produced it, plus
// COPYFLAG. Both are carried for bit-layout fidelity with the tagged-edge
// format this is a CPU reference implementation of; correctness never
// depends on decoding them back out, since id/edge already carry
// everything this reference needs to recover the real cycle.
type relayEdge struct {
	edge Edge
	id   uint64
	tag  uint64
}

// seedRelayEdges converts the tail pass's uncompressed edges into the
// leaf generation of one solve's relay provenance, ready for the first
// relayRound call.
func seedRelayEdges(prov *relayProvenance, edges []Edge) []relayEdge {
	out := make([]relayEdge, len(edges))
	for i, e := range edges {
		out[i] = relayEdge{edge: e, id: prov.newLeaf(e)}
	}
	return out
}

// relayRound performs one tag-relay pass: bucket src by the raw node id
// of each entry's U free end, build a chained hash table per bucket keyed
// by the low listBits bits of that id's Z value, then for every entry
// look up its sibling list and, on a match, collapse the pair (a—b, b—c)
// into one relayed edge naming the pair's other two free ends (a, c).
//
// Two edges sharing node b have, by construction, the same raw id on the
// end that matched, so the sibling test only needs the same approximate
// off-by-one screen on Z a trim round's mark/emit pass uses: false
// positives are expected and harmless here too, filtered out later by
// exact cycle finding and nonce recovery.
//
// tagged selects whether this is the first relay round (fresh tag derived
// from the sibling's far endpoint) or a later one (propagate the incoming
// tag unchanged, the "prior tag field" rule).
func (c *SolverContext) relayRound(keys siphash.Keys, src []relayEdge, prov *relayProvenance, tagged bool) (dst []relayEdge, overflow int) {
	d := c.derived
	const listBits = 12
	lb := uint(listBits)
	if lb > d.ZBits {
		lb = d.ZBits
	}
	listMask := uint64(1)<<lb - 1

	buckets := make([][]int, d.NB)
	for i, re := range src {
		b := edgeBucket(d, rawNode(re.edge.U))
		buckets[b] = append(buckets[b], i)
	}

	for b := uint64(0); b < d.NB; b++ {
		idxs := buckets[b]
		n := len(idxs)
		if n == 0 {
			continue
		}

		head := make([]int32, 1<<lb)
		for i := range head {
			head[i] = -1
		}
		next := make([]int32, n)
		listOf := make([]uint64, n)

		for k, i := range idxs {
			u := rawNode(src[i].edge.U)
			list := edgeZ(d, u) & listMask
			listOf[k] = list
			next[k] = head[list]
			head[list] = int32(k)
		}

		emitted := make([]bool, n)
		for k := n - 1; k >= 0; k-- {
			if emitted[k] {
				continue
			}
			i := idxs[k]
			e := src[i]
			u := rawNode(e.edge.U)
			zu := edgeZ(d, u)
			siblingList := listOf[k] ^ 1

			for j := head[siblingList]; j != -1 && !emitted[k]; j = next[j] {
				i2 := idxs[j]
				e2 := src[i2]
				u2 := rawNode(e2.edge.U)
				zu2 := edgeZ(d, u2)
				if zu2^zu != 1 {
					continue
				}
				emitted[k] = true

				var tag uint64
				if tagged {
					tag, _, _ = unpackTaggedHalf(d, e.tag)
				} else {
					tag = edgeZ(d, rawNode(e2.edge.V))
				}

				mergedID := prov.merge(e.id, e2.id)
				wire := packTaggedHalf(d, tag, zu, true)
				dst = append(dst, relayEdge{
					edge: Edge{U: e.edge.V, V: e2.edge.V},
					id:   mergedID,
					tag:  wire,
				})
			}
		}
	}
	return dst, 0
}
