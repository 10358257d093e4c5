package sim

// Operation is a single invokable behavior exposed by a dispatch target.
// Arguments are passed positionally, exactly as they were attached to the
// event; an event with no arguments invokes the operation with none.
type Operation func(args ...any)

// Target is anything the Schedule can dispatch an event to. Each target
// exposes a fixed table of named operations; dispatch never uses reflection.
type Target interface {
	Ops() map[string]Operation
}

// Accessor is a named read-only view onto a target's state, used by Sensors
// to build records. The returned value is defensively copied before logging.
type Accessor func() any

// Agent is a simulated object with identity, a position inside the context
// bounds, and the dispatch/observation surfaces the kernel relies on.
type Agent interface {
	Target

	// ID is unique and monotonic for the lifetime of the simulation; ids are
	// handed out by the Context and never reused, even after retirement.
	ID() uint64

	// Kind is an explicit tag identifying the agent variant, used for census
	// counts and export keys instead of runtime type inspection.
	Kind() string

	// Position is the agent's current 3-vector position. The returned slice
	// is the live position; callers must not mutate it.
	Position() []float64

	// Accessors is the agent's read-accessor table. A field name resolves
	// against the table directly first, then under the boolean-style
	// "is_<name>" convention.
	Accessors() map[string]Accessor

	// Sensor returns the agent's attached sensor, or nil if it has none.
	Sensor() *Sensor
}

// Event describes a single future invocation of a named operation on a
// target. Events are immutable once scheduled: a recurring event produces a
// fresh successor instance on execution rather than mutating itself.
type Event struct {
	// Time is the simulation tick at which the event is due.
	Time float64

	// Target receives the dispatch. Must be non-nil.
	Target Target

	// Op names the operation in the target's table.
	Op string

	// Args are passed to the operation positionally. May be nil.
	Args []any

	// Priority orders events sharing a tick; lower values dispatch first.
	Priority int

	// Interval, when greater than zero, makes the event recurring: on
	// execution a successor is scheduled at Time+Interval.
	Interval float64

	// seq is the insertion order assigned by the Schedule, the tertiary
	// ordering key that makes same-tick same-priority replay deterministic.
	seq uint64
}

// NewEvent builds an event due at the given tick.
func NewEvent(tick float64, target Target, op string, args []any, priority int, interval float64) *Event {
	return &Event{
		Time:     tick,
		Target:   target,
		Op:       op,
		Args:     args,
		Priority: priority,
		Interval: interval,
	}
}

// successor builds the next occurrence of a recurring event. When
// preservePriority is false the successor falls back to the default priority,
// reproducing the historical re-scheduling behavior.
func (e *Event) successor(preservePriority bool) *Event {
	priority := e.Priority
	if !preservePriority {
		priority = 0
	}
	return NewEvent(e.Time+e.Interval, e.Target, e.Op, e.Args, priority, e.Interval)
}
