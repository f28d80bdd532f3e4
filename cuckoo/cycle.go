package cuckoo

import "github.com/pkg/errors"

// errPathTooLong is returned internally when a parent chain exceeds the
// forest's capacity, signalling a degenerate (non-simple) graph rather
// than a real cycle.
var errPathTooLong = errors.New("cuckoo: path exceeds forest capacity")

// cycleFinder is the host-side union-find-by-relinking structure. u and v
// endpoints are always even/odd respectively (the bipartition parity
// Endpoint enforces), so one dense node-id space safely holds both sides
// without collision: dense ids are handed out in order of first
// appearance, and a single parent array forms one forest whose trees mix
// side-0 and side-1 nodes, linked along edges.
type cycleFinder struct {
	ids    map[uint64]int32 // raw endpoint value -> dense node id
	values []uint64         // dense node id -> raw endpoint value
	parent []int32          // dense node id -> parent dense node id, or -1 at a root

	maxPath int
	scratchU []int32
	scratchV []int32
}

func newCycleFinder(capacity int, maxPath int) *cycleFinder {
	return &cycleFinder{
		ids:      make(map[uint64]int32, 2*capacity),
		values:   make([]uint64, 0, 2*capacity),
		parent:   make([]int32, 0, 2*capacity),
		maxPath:  maxPath,
		scratchU: make([]int32, 0, maxPath),
		scratchV: make([]int32, 0, maxPath),
	}
}

func (f *cycleFinder) idOf(v uint64) int32 {
	if id, ok := f.ids[v]; ok {
		return id
	}
	id := int32(len(f.values))
	f.ids[v] = id
	f.values = append(f.values, v)
	f.parent = append(f.parent, -1)
	return id
}

// path walks the parent chain starting at id, collecting every node
// visited (including id) and returning the final root.
func (f *cycleFinder) path(id int32, into []int32) ([]int32, error) {
	into = into[:0]
	for cur := id; ; {
		if len(into) >= f.maxPath {
			return nil, errPathTooLong
		}
		into = append(into, cur)
		next := f.parent[cur]
		if next == -1 {
			return into, nil
		}
		cur = next
	}
}

// AddEdge inserts (u, v); if it closes a simple cycle through the forest,
// that cycle's node ids are returned. proofSize bounds which cycle lengths
// are reported: only a closed cycle of exactly proofSize nodes is a
// candidate; any other length is discarded (it cannot be extended into an
// L-cycle by later edges, since every node has at most one parent link and
// the forest never revisits a root).
func (f *cycleFinder) AddEdge(u, v uint64, proofSize int) ([]uint64, error) {
	uid := f.idOf(u)
	vid := f.idOf(v)

	us, err := f.path(uid, f.scratchU)
	if err != nil {
		return nil, err
	}
	f.scratchU = us
	vs, err := f.path(vid, f.scratchV)
	if err != nil {
		return nil, err
	}
	f.scratchV = vs

	if us[len(us)-1] == vs[len(vs)-1] {
		// A cycle closes iff the two paths share a root. Align both paths
		// to the same remaining distance from their shared root, then walk
		// outward from there until they meet at their lowest common
		// ancestor.
		nu, nv := len(us)-1, len(vs)-1
		min := nu
		if nv < min {
			min = nv
		}
		nu -= min
		nv -= min
		for us[nu] != vs[nv] {
			nu++
			nv++
		}
		length := nu + nv + 1
		if length != proofSize {
			return nil, nil
		}
		nodeIDs := make([]int32, 0, length)
		nodeIDs = append(nodeIDs, us[:nu+1]...)
		for i := nv - 1; i >= 0; i-- {
			nodeIDs = append(nodeIDs, vs[i])
		}
		nodes := make([]uint64, len(nodeIDs))
		for i, id := range nodeIDs {
			nodes[i] = f.values[id]
		}
		return nodes, nil
	}

	// No cycle yet: union the two chains by relinking the shorter one onto
	// the longer one's root.
	if len(us) < len(vs) {
		for i := len(us) - 1; i > 0; i-- {
			f.parent[us[i]] = us[i-1]
		}
		f.parent[uid] = vid
	} else {
		for i := len(vs) - 1; i > 0; i-- {
			f.parent[vs[i]] = vs[i-1]
		}
		f.parent[vid] = uid
	}
	return nil, nil
}

// findCycles runs the cycle finder over every edge in edges, returning up
// to maxSols proof-length cycles, each as its endpoint values in cycle
// order (original edge order is not preserved; callers turn consecutive
// nodes back into edges and map those to nonces via recoverNonces).
// Duplicate (u,v) pairs are skipped before insertion and counted in dupes.
func findCycles(edges []Edge, proofSize, maxSols, maxPath int) (cycles [][]uint64, dupes int) {
	f := newCycleFinder(len(edges), maxPath)
	seen := make(map[uint64]struct{}, len(edges))
	for _, e := range edges {
		key := packPair(e.U, e.V)
		if _, ok := seen[key]; ok {
			dupes++
			continue
		}
		seen[key] = struct{}{}

		nodes, err := f.AddEdge(e.U, e.V, proofSize)
		if err != nil {
			continue
		}
		if nodes != nil {
			cycles = append(cycles, nodes)
			if len(cycles) >= maxSols {
				break
			}
		}
	}
	return cycles, dupes
}
