package sim

import "sort"

// kdTree is a static 3-d tree over a candidate set, built per query by the
// neighbour search when the candidate count makes the direct scan expensive.
// It is exact: selections match the pairwise-distance scan index for index,
// including the input-order tie-break.
type kdTree struct {
	// pts holds a snapshot of each candidate's position, indexed like the
	// candidate slice the tree was built from.
	pts  [][3]float64
	root *kdNode
}

type kdNode struct {
	idx         int
	axis        int
	left, right *kdNode
}

func newKDTree(candidates []Agent) *kdTree {
	t := &kdTree{pts: make([][3]float64, len(candidates))}
	idx := make([]int, len(candidates))
	for i, c := range candidates {
		copy(t.pts[i][:], c.Position())
		idx[i] = i
	}
	t.root = t.build(idx, 0)
	return t
}

func (t *kdTree) build(idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % 3
	// Sorting by (coordinate, index) keeps the tree shape deterministic for
	// duplicate coordinates.
	sort.Slice(idx, func(i, j int) bool {
		a, b := t.pts[idx[i]][axis], t.pts[idx[j]][axis]
		if a != b {
			return a < b
		}
		return idx[i] < idx[j]
	})
	mid := len(idx) / 2
	return &kdNode{
		idx:   idx[mid],
		axis:  axis,
		left:  t.build(idx[:mid], depth+1),
		right: t.build(idx[mid+1:], depth+1),
	}
}

// nearest returns the indices of the k closest candidates to p, ordered by
// (squared distance, candidate index).
func (t *kdTree) nearest(p []float64, k int) []int {
	if k > len(t.pts) {
		k = len(t.pts)
	}
	best := &bestList{k: k}
	t.search(t.root, p, best)
	out := make([]int, len(best.hits))
	for i, h := range best.hits {
		out[i] = h.idx
	}
	return out
}

func (t *kdTree) search(n *kdNode, p []float64, best *bestList) {
	if n == nil {
		return
	}
	best.consider(sqDistance(p, t.pts[n.idx][:]), n.idx)

	diff := p[n.axis] - t.pts[n.idx][n.axis]
	near, far := n.left, n.right
	if diff > 0 {
		near, far = n.right, n.left
	}
	t.search(near, p, best)
	// The far half-space is visited on equality too: an equidistant point
	// with a smaller index still wins the tie-break.
	if len(best.hits) < best.k || diff*diff <= best.hits[len(best.hits)-1].d2 {
		t.search(far, p, best)
	}
}

type kdHit struct {
	d2  float64
	idx int
}

// bestList keeps the k best hits sorted by (squared distance, index).
type bestList struct {
	k    int
	hits []kdHit
}

func (b *bestList) consider(d2 float64, idx int) {
	h := kdHit{d2: d2, idx: idx}
	if len(b.hits) == b.k {
		worst := b.hits[len(b.hits)-1]
		if !hitLess(h, worst) {
			return
		}
		b.hits = b.hits[:len(b.hits)-1]
	}
	at := sort.Search(len(b.hits), func(i int) bool { return hitLess(h, b.hits[i]) })
	b.hits = append(b.hits, kdHit{})
	copy(b.hits[at+1:], b.hits[at:])
	b.hits[at] = h
}

func hitLess(a, b kdHit) bool {
	if a.d2 != b.d2 {
		return a.d2 < b.d2
	}
	return a.idx < b.idx
}
