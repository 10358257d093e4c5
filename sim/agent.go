package sim

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// kdTreeCutoff is the candidate count at which neighbour queries switch from
// direct pairwise distances to a kd-tree. Both strategies select identical
// candidates; only the asymptotic cost differs.
const kdTreeCutoff = 32

// Base carries the kernel-facing half of an agent: identity, position, the
// attached sensor, and motion within the context bounds. Domain agents embed
// Base and add their kind tag plus operation and accessor tables.
type Base struct {
	id     uint64
	ctx    *Context
	pos    []float64
	sensor *Sensor
}

// NewBase assigns an id from the context's id source and places the agent at
// the given position, clamped into bounds. A nil position starts at the
// origin. The agent still has to be registered with Context.Add.
func NewBase(ctx *Context, position []float64) *Base {
	pos := make([]float64, 3)
	copy(pos, position)
	b := &Base{
		id:  ctx.NextID(),
		ctx: ctx,
		pos: pos,
	}
	b.ClampToBounds()
	return b
}

// ID returns the agent's unique id.
func (b *Base) ID() uint64 { return b.id }

// Position returns the agent's live position vector. Callers must not mutate
// it; movement goes through MoveTo and MoveBy.
func (b *Base) Position() []float64 { return b.pos }

// Sensor returns the attached sensor, or nil.
func (b *Base) Sensor() *Sensor { return b.sensor }

// AttachSensor binds a sensor to the agent.
func (b *Base) AttachSensor(s *Sensor) { b.sensor = s }

// Registry returns the context the agent lives in.
func (b *Base) Registry() *Context { return b.ctx }

// ClampToBounds clamps the position into the context bounds on every axis.
// Clamping is the sole bounds policy: no wrap-around, no reflection.
func (b *Base) ClampToBounds() {
	bounds := b.ctx.Bounds()
	for i := 0; i < 3; i++ {
		if b.pos[i] < bounds[i] {
			b.pos[i] = bounds[i]
		}
		if b.pos[i] > bounds[i+3] {
			b.pos[i] = bounds[i+3]
		}
	}
}

// MoveTo sets an absolute position, clamps it into bounds and invalidates the
// context's position cache.
func (b *Base) MoveTo(position []float64) {
	copy(b.pos, position)
	b.ClampToBounds()
	b.ctx.MarkDirty()
}

// MoveBy applies a relative displacement, clamps the result into bounds and
// invalidates the context's position cache.
func (b *Base) MoveBy(vector []float64) {
	floats.Add(b.pos, vector)
	b.ClampToBounds()
	b.ctx.MarkDirty()
}

// DistanceTo returns the Euclidean distance to another agent.
func (b *Base) DistanceTo(other Agent) float64 {
	return floats.Distance(b.pos, other.Position(), 2)
}

// NearestNeighbour returns the closest of the given candidates, or nil when
// there are none. The caller excludes itself from the candidate set
// beforehand.
func (b *Base) NearestNeighbour(candidates []Agent) Agent {
	idx := b.nearestIndices(candidates, 1)
	if len(idx) == 0 {
		return nil
	}
	return candidates[idx[0]]
}

// Neighbours returns up to k candidates ordered by increasing distance, ties
// broken by candidate input order. With no candidates it returns an empty
// slice; with fewer than k it returns them all.
func (b *Base) Neighbours(candidates []Agent, k int) []Agent {
	idx := b.nearestIndices(candidates, k)
	out := make([]Agent, len(idx))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}

// nearestIndices is the shared selection core for both neighbour queries. It
// returns the indices of the min(k, n) closest candidates ordered by
// (squared distance, input index). The kd-tree and the direct scan must, and
// do, agree exactly on the selection.
func (b *Base) nearestIndices(candidates []Agent, k int) []int {
	n := len(candidates)
	if n == 0 || k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	if n >= kdTreeCutoff {
		return newKDTree(candidates).nearest(b.pos, k)
	}

	d2 := make([]float64, n)
	for i, c := range candidates {
		d2[i] = sqDistance(b.pos, c.Position())
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return d2[idx[i]] < d2[idx[j]]
	})
	return idx[:k]
}

// sqDistance is the squared Euclidean distance between two 3-vectors. Both
// neighbour-search strategies rank by this same quantity so the selected
// candidates can never differ between them.
func sqDistance(p, q []float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := p[i] - q[i]
		sum += d * d
	}
	return sum
}
