package sim

import (
	"container/heap"
	"errors"

	"github.com/sirupsen/logrus"
)

// ErrNilTarget is returned when an event without a target is scheduled.
var ErrNilTarget = errors.New("sim: event target is nil")

// eventHeap implements heap.Interface over pending events.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []*Event

func (eh eventHeap) Len() int { return len(eh) }

// Less orders by tick, then priority (lower dispatches first), then insertion
// sequence. The full three-key comparison is what makes replay deterministic.
func (eh eventHeap) Less(i, j int) bool {
	if eh[i].Time != eh[j].Time {
		return eh[i].Time < eh[j].Time
	}
	if eh[i].Priority != eh[j].Priority {
		return eh[i].Priority < eh[j].Priority
	}
	return eh[i].seq < eh[j].seq
}

func (eh eventHeap) Swap(i, j int) { eh[i], eh[j] = eh[j], eh[i] }

func (eh *eventHeap) Push(x any) {
	*eh = append(*eh, x.(*Event))
}

func (eh *eventHeap) Pop() any {
	old := *eh
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*eh = old[0 : n-1]
	return item
}

// Schedule is the ordered multiset of pending events and the owner of the
// virtual clock. All mutation of the pending set goes through Add, Purge and
// Clear; Step is the only way the clock moves.
type Schedule struct {
	pending eventHeap
	tick    float64
	nextSeq uint64

	// preserveRecurringPriority controls whether a recurring event's
	// successor keeps the original priority (true) or drops to the default
	// (false, the historical behavior).
	preserveRecurringPriority bool

	// Executed and Discarded count dispatched events and stale events
	// dropped without dispatch, for the end-of-run summary.
	Executed  uint64
	Discarded uint64
}

// NewSchedule creates an empty schedule with the clock at startTick.
// Recurring events keep their priority on re-schedule.
func NewSchedule(startTick float64) *Schedule {
	return NewScheduleWithOptions(startTick, true)
}

// NewScheduleWithOptions exposes the recurring-priority policy. Passing false
// reproduces runs recorded before successors preserved priority.
func NewScheduleWithOptions(startTick float64, preserveRecurringPriority bool) *Schedule {
	return &Schedule{
		pending:                   make(eventHeap, 0),
		tick:                      startTick,
		preserveRecurringPriority: preserveRecurringPriority,
	}
}

// Add inserts an event into the pending set. There is no deduplication; the
// only rejected input is an event with no target.
func (s *Schedule) Add(ev *Event) error {
	if ev.Target == nil {
		return ErrNilTarget
	}
	ev.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.pending, ev)
	return nil
}

// Step advances the simulation by one event.
//
// Events that are already behind the clock are discarded without executing:
// they were enqueued behind the clock, and dispatching them would violate
// causal ordering with events already processed at that instant. Otherwise
// the earliest-ordered event is popped, the clock jumps to its tick, the
// event is dispatched, and a recurring event schedules its successor.
//
// The return value is the clock after the step; an empty schedule returns the
// clock unchanged.
func (s *Schedule) Step() float64 {
	if len(s.pending) == 0 {
		return s.tick
	}

	for len(s.pending) > 0 && s.pending[0].Time < s.tick {
		stale := heap.Pop(&s.pending).(*Event)
		s.Discarded++
		logrus.Debugf("[tick %010.3f] Discarding stale %q on %T due at %.3f", s.tick, stale.Op, stale.Target, stale.Time)
	}
	if len(s.pending) == 0 {
		return s.tick
	}

	ev := heap.Pop(&s.pending).(*Event)
	s.tick = ev.Time

	s.dispatch(ev)
	s.Executed++

	if ev.Interval > 0 {
		// Recurring events never mutate in place; the successor is a fresh
		// instance with its own insertion sequence.
		if err := s.Add(ev.successor(s.preserveRecurringPriority)); err != nil {
			logrus.Warnf("[tick %010.3f] Could not re-schedule %q: %v", s.tick, ev.Op, err)
		}
	}

	return s.tick
}

// dispatch resolves the event's operation against the target's table and
// invokes it. An unresolved operation is reported and skipped; the simulation
// keeps running.
func (s *Schedule) dispatch(ev *Event) {
	op, ok := ev.Target.Ops()[ev.Op]
	if !ok {
		logrus.Warnf("[tick %010.3f] Operation %q not found on %T, skipping event", s.tick, ev.Op, ev.Target)
		return
	}
	logrus.Debugf("[tick %010.3f] Executing %q on %T", s.tick, ev.Op, ev.Target)
	op(ev.Args...)
}

// Purge removes every pending event targeting the given target. Used when an
// agent is retired so dispatch can never reach it again. The relative order
// of the surviving events is unchanged.
func (s *Schedule) Purge(target Target) {
	kept := s.pending[:0]
	for _, ev := range s.pending {
		if ev.Target != target {
			kept = append(kept, ev)
		}
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept
	heap.Init(&s.pending)
}

// Clear empties the pending set. This is the abort path, distinct from the
// queue draining naturally.
func (s *Schedule) Clear() {
	for i := range s.pending {
		s.pending[i] = nil
	}
	s.pending = s.pending[:0]
}

// Len reports the number of pending events.
func (s *Schedule) Len() int { return len(s.pending) }

// Tick reports the current clock value.
func (s *Schedule) Tick() float64 { return s.tick }
