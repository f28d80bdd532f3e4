package cuckoo

import (
	"testing"

	"github.com/Qitmeer/qitmeer-cuckoo/siphash"
	"github.com/stretchr/testify/assert"
)

func TestTrimRoundSurvivorsDecreaseMonotonically(t *testing.T) {
	c := newToyContext(t)
	keys := siphash.NewKeys(make([]byte, 32))
	d := c.derived

	seedStats := c.seed(keys, 0, d.NEdges)
	assert.NotNil(t, seedStats)

	total := func(a *Arena) uint64 {
		var n uint64
		for b := uint64(0); b < a.NumBuckets(); b++ {
			n += a.Count(b)
		}
		return n
	}

	prev := total(c.arenaA)
	src, dst := c.arenaA, c.arenaB
	srcIsPair := false
	for round := 0; round < c.params.NTrims; round++ {
		dstIsPair := round >= 2
		survivors, _ := c.trimRound(keys, uint64(round%2), src, dst, srcIsPair, dstIsPair)
		assert.LessOrEqual(t, survivors, prev, "trim round %d grew the edge set", round)
		prev = survivors
		src, dst = dst, src
		srcIsPair = dstIsPair
		dst.Reset()
	}
}

func TestTrimRoundEmptyBucketsStayEmpty(t *testing.T) {
	c := newToyContext(t)
	keys := siphash.NewKeys(make([]byte, 32))

	survivors, overflow := c.trimRound(keys, 0, c.arenaA, c.arenaB, false, false)
	assert.EqualValues(t, 0, survivors)
	assert.EqualValues(t, 0, overflow)
}

func TestTrimRoundRetainsSiblingPair(t *testing.T) {
	// Two nonces that collide at the same bucket/Z are siblings by
	// construction whenever they map to the same u with opposite low bit;
	// exercise the mark/emit sibling screen of a nonce->nonce round
	// directly by handing it a bucket that already contains exactly such a
	// sibling pair.
	c := newToyContext(t)
	keys := siphash.NewKeys(make([]byte, 32))
	d := c.derived

	// Find two distinct nonces whose side-0 endpoints land in the same
	// bucket and are siblings (their raw, pre-parity Z values differ only
	// in bit 0) — exactly what trimRound's mark/emit passes key off.
	type found struct{ n1, n2 uint64 }
	var f *found
outer:
	for n1 := uint64(1); n1 < d.NEdges; n1++ {
		u1 := rawNode(Endpoint(c.params, d, keys, n1, 0))
		b1 := edgeBucket(d, u1)
		z1 := edgeZ(d, u1)
		for n2 := n1 + 1; n2 < d.NEdges; n2++ {
			u2 := rawNode(Endpoint(c.params, d, keys, n2, 0))
			if edgeBucket(d, u2) != b1 {
				continue
			}
			z2 := edgeZ(d, u2)
			if z2 == sibling(z1) {
				f = &found{n1, n2}
				break outer
			}
		}
	}
	if f == nil {
		t.Fatal("no sibling pair found at this toy size; toy params must produce one")
	}

	a := NewArena(d.NB, 8)
	dst := NewArena(d.NB, 8)
	u1 := rawNode(Endpoint(c.params, d, keys, f.n1, 0))
	b := edgeBucket(d, u1)
	slot1, _ := a.Reserve(b)
	a.Write(b, slot1, f.n1)
	slot2, _ := a.Reserve(b)
	a.Write(b, slot2, f.n2)

	survivors, _ := c.trimRound(keys, 0, a, dst, false, false)
	assert.EqualValues(t, 2, survivors, "both halves of a sibling pair must survive")
}
