package cuckoo

// Edge is one uncompressed survivor pair exported by the tail pass.
type Edge struct {
	U uint64
	V uint64
}

// tail exports every surviving pair in src as host-visible Edge values,
// walking the bucket matrix and reconstructing (u, v) from each packed
// uint64 entry.
//
// If the survivor count exceeds MaxEdges, the excess is dropped and
// ErrTailOverflow is returned; this aborts the solve for this nonce only,
// not the whole range.
func (c *SolverContext) tail(src *Arena) ([]Edge, error) {
	d := c.derived
	edges := make([]Edge, 0, d.MaxEdges)
	for b := uint64(0); b < d.NB; b++ {
		for _, e := range src.Bucket(b) {
			if uint64(len(edges)) >= d.MaxEdges {
				return edges, ErrTailOverflow
			}
			u, v := unpackPair(e)
			edges = append(edges, Edge{U: u, V: v})
		}
	}
	return edges, nil
}
