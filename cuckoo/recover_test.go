package cuckoo

import (
	"testing"

	"github.com/Qitmeer/qitmeer-cuckoo/siphash"
	"github.com/stretchr/testify/assert"
)

func TestRecoverNoncesFindsExactTargets(t *testing.T) {
	c := newToyContext(t)
	keys := siphash.NewKeys(make([]byte, 32))
	d := c.derived

	wantNonces := []uint64{3, 17, 101}
	targets := make([]Edge, len(wantNonces))
	for i, n := range wantNonces {
		u := Endpoint(c.params, d, keys, n, 0)
		v := Endpoint(c.params, d, keys, n, 1)
		targets[i] = Edge{U: u, V: v}
	}

	got, err := c.recoverNonces(keys, targets)
	assert.NoError(t, err)
	assert.Len(t, got, len(wantNonces))

	want := make(map[uint32]bool)
	for _, n := range wantNonces {
		want[uint32(n)] = true
	}
	for i, g := range got {
		assert.True(t, want[g], "unexpected recovered nonce %d", g)
		if i > 0 {
			assert.Less(t, got[i-1], got[i], "recovered nonces must be ascending")
		}
	}
}
