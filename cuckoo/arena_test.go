package cuckoo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaReserveWriteBucket(t *testing.T) {
	a := NewArena(4, 8)
	slot, ok := a.Reserve(0)
	assert.True(t, ok)
	a.Write(0, slot, 123)
	assert.EqualValues(t, 1, a.Count(0))
	assert.Equal(t, []uint64{123}, a.Bucket(0))
}

func TestArenaReserveSaturates(t *testing.T) {
	a := NewArena(1, 4)
	for i := 0; i < 4; i++ {
		_, ok := a.Reserve(0)
		assert.True(t, ok)
	}
	_, ok := a.Reserve(0)
	assert.False(t, ok, "reserve past capacity must fail")
	assert.EqualValues(t, 4, a.Count(0))
}

func TestArenaReset(t *testing.T) {
	a := NewArena(2, 4)
	a.Reserve(0)
	a.Reserve(1)
	a.Reset()
	assert.EqualValues(t, 0, a.Count(0))
	assert.EqualValues(t, 0, a.Count(1))
}

func TestArenaReserveConcurrentNeverExceedsCapacity(t *testing.T) {
	const capacity = 200
	a := NewArena(1, capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[uint64]bool)

	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				slot, ok := a.Reserve(0)
				if !ok {
					continue
				}
				mu.Lock()
				assert.False(t, seen[slot], "slot reserved twice")
				seen[slot] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, a.Count(0), uint64(capacity))
}
