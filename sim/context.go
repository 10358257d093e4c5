package sim

import (
	"gonum.org/v1/gonum/mat"
)

// Context manages the agents within a bounded space. It owns the simulation
// bounds, the live agent roster, the id source, and a lazily rebuilt matrix
// of agent positions.
//
// Cache discipline: every roster mutation and every agent move bumps the
// epoch counter. Positions rebuilds the matrix only when its stamp lags the
// epoch, so repeated reads between moves are free. Any agent that mutates its
// own position must call MarkDirty (Base.MoveTo/MoveBy do), or neighbour
// queries may see stale positions.
type Context struct {
	// bounds is [min_x, min_y, min_z, max_x, max_y, max_z].
	bounds [6]float64

	agents []Agent

	cache      *mat.Dense
	cacheStamp uint64
	epoch      uint64

	nextID uint64
}

// NewContext creates an empty context with the given bounds, listed per-axis
// minimum first: [min_x, min_y, min_z, max_x, max_y, max_z].
func NewContext(bounds [6]float64) *Context {
	return &Context{
		bounds: bounds,
		agents: make([]Agent, 0),
		epoch:  1,
	}
}

// NextID hands out the next agent id. Ids are monotonic for the lifetime of
// the context and never reused, even after an agent is retired.
func (c *Context) NextID() uint64 {
	c.nextID++
	return c.nextID
}

// Add appends an agent to the roster and invalidates the position cache.
func (c *Context) Add(a Agent) {
	c.agents = append(c.agents, a)
	c.epoch++
}

// Remove deletes an agent from the roster and invalidates the position cache.
// Removing an unknown agent is a no-op. Retiring an agent also requires
// purging its pending events; see Engine.Retire.
func (c *Context) Remove(a Agent) {
	for i, got := range c.agents {
		if got == a {
			c.agents = append(c.agents[:i], c.agents[i+1:]...)
			c.epoch++
			return
		}
	}
}

// MarkDirty invalidates the position cache without forcing a rebuild. Agents
// call this after moving; the rebuild happens on the next Positions read.
func (c *Context) MarkDirty() {
	c.epoch++
}

// Epoch reports the current mutation epoch. Readers holding a matrix from
// Positions can compare stamps to detect staleness.
func (c *Context) Epoch() uint64 { return c.epoch }

// Positions returns the n-by-3 matrix of agent positions, one row per agent
// in roster order. The matrix is rebuilt only when the cache is stale; with
// no agents registered it returns nil. Callers must not retain the matrix
// across mutations without re-checking Epoch.
func (c *Context) Positions() *mat.Dense {
	if c.cacheStamp == c.epoch {
		return c.cache
	}
	if len(c.agents) == 0 {
		c.cache = nil
		c.cacheStamp = c.epoch
		return nil
	}
	data := make([]float64, 0, len(c.agents)*3)
	for _, a := range c.agents {
		data = append(data, a.Position()...)
	}
	c.cache = mat.NewDense(len(c.agents), 3, data)
	c.cacheStamp = c.epoch
	return c.cache
}

// Agents returns the live roster in registration order. The slice is the
// context's own; callers must not mutate it.
func (c *Context) Agents() []Agent { return c.agents }

// AgentsByKind returns the agents carrying the given kind tag, in roster
// order.
func (c *Context) AgentsByKind(kind string) []Agent {
	var out []Agent
	for _, a := range c.agents {
		if a.Kind() == kind {
			out = append(out, a)
		}
	}
	return out
}

// CountByKind tallies agents by kind tag. With no arguments it returns a
// count for every kind present in the roster; with arguments it returns a
// count for exactly the requested kinds, zero included.
func (c *Context) CountByKind(kinds ...string) map[string]int {
	counts := make(map[string]int)
	if len(kinds) == 0 {
		for _, a := range c.agents {
			counts[a.Kind()]++
		}
		return counts
	}
	for _, kind := range kinds {
		counts[kind] = 0
	}
	for _, a := range c.agents {
		if _, wanted := counts[a.Kind()]; wanted {
			counts[a.Kind()]++
		}
	}
	return counts
}

// Bounds returns the spatial bounds, per-axis minimum first.
func (c *Context) Bounds() [6]float64 { return c.bounds }
