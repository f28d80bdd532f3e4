package cuckoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaggedHalfRoundTrip(t *testing.T) {
	_, d := toyDerived()

	cases := []struct {
		tag  uint64
		z    uint64
		copy bool
	}{
		{0, 0, false},
		{1, 3, true},
		{d.NZ - 1, d.NZ - 1, false},
		{5, 9, true},
	}
	for _, c := range cases {
		packed := packTaggedHalf(d, c.tag, c.z, c.copy)
		tag, z, copy := unpackTaggedHalf(d, packed)
		assert.Equal(t, c.tag, tag)
		assert.Equal(t, c.z, z)
		assert.Equal(t, c.copy, copy)
	}
}

func TestTagBitsComplementsZBits(t *testing.T) {
	_, d := toyDerived()
	assert.EqualValues(t, 31, tagBits(d)+uint(d.ZBits))
}

func TestRelayRounds(t *testing.T) {
	assert.Equal(t, 20, RelayRounds(42))
	assert.Equal(t, 3, RelayRounds(8))
	assert.Equal(t, 1, RelayRounds(4))
}
