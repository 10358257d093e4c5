package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_Add_NilTarget_ReturnsError(t *testing.T) {
	s := NewSchedule(0)

	err := s.Add(NewEvent(1, nil, "ping", nil, 0, 0))

	assert.ErrorIs(t, err, ErrNilTarget)
	assert.Equal(t, 0, s.Len())
}

func TestSchedule_Step_Empty_ReturnsTickUnchanged(t *testing.T) {
	// GIVEN an empty schedule with the clock at 3.5
	s := NewSchedule(3.5)

	// WHEN Step() is called
	got := s.Step()

	// THEN the clock is unchanged
	if got != 3.5 {
		t.Errorf("Step on empty schedule: got tick %v, want 3.5", got)
	}
}

func TestSchedule_PriorityTieBreak_LowerDispatchesFirst(t *testing.T) {
	// GIVEN two events at tick 1 on distinct targets, priorities 5 and 0,
	// inserted in that order
	s := NewSchedule(0)
	late := &recordingTarget{}
	early := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, late, "ping", nil, 5, 0)))
	require.NoError(t, s.Add(NewEvent(1, early, "ping", nil, 0, 0)))

	// WHEN the first event is stepped
	s.Step()

	// THEN the priority-0 event dispatched first
	assert.Len(t, early.calls, 1)
	assert.Empty(t, late.calls)

	s.Step()
	assert.Len(t, late.calls, 1)
}

func TestSchedule_InsertionOrderTieBreak_IsFIFO(t *testing.T) {
	// GIVEN three same-tick same-priority events
	s := NewSchedule(0)
	var order []int
	targets := make([]*fifoTarget, 3)
	for i := range targets {
		targets[i] = &fifoTarget{id: i, order: &order}
		require.NoError(t, s.Add(NewEvent(2, targets[i], "mark", nil, 0, 0)))
	}

	// WHEN all events are stepped
	for s.Len() > 0 {
		s.Step()
	}

	// THEN dispatch order matches insertion order
	assert.Equal(t, []int{0, 1, 2}, order)
}

type fifoTarget struct {
	id    int
	order *[]int
}

func (f *fifoTarget) Ops() map[string]Operation {
	return map[string]Operation{
		"mark": func(args ...any) { *f.order = append(*f.order, f.id) },
	}
}

func TestSchedule_StaleEvents_DiscardedWithoutDispatch(t *testing.T) {
	// GIVEN a clock already at tick 5 and an event due at tick 3
	s := NewSchedule(5)
	stale := &recordingTarget{}
	fresh := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(3, stale, "ping", nil, 0, 0)))
	require.NoError(t, s.Add(NewEvent(7, fresh, "ping", nil, 0, 0)))

	// WHEN Step() is called
	got := s.Step()

	// THEN the stale event was dropped without executing and the fresh one ran
	assert.Empty(t, stale.calls)
	assert.Len(t, fresh.calls, 1)
	assert.Equal(t, 7.0, got)
	assert.Equal(t, uint64(1), s.Discarded)
}

func TestSchedule_StaleEvents_EmptyingReturnsClock(t *testing.T) {
	// GIVEN only stale events
	s := NewSchedule(10)
	stale := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, stale, "ping", nil, 0, 0)))
	require.NoError(t, s.Add(NewEvent(2, stale, "ping", nil, 0, 0)))

	// WHEN Step() is called
	got := s.Step()

	// THEN nothing executed and the clock is unchanged
	assert.Empty(t, stale.calls)
	assert.Equal(t, 10.0, got)
	assert.Equal(t, 0, s.Len())
}

func TestSchedule_Step_ClockNeverDecreases(t *testing.T) {
	s := NewSchedule(0)
	target := &recordingTarget{}
	for _, tick := range []float64{4, 1, 9, 1, 6, 2} {
		if err := s.Add(NewEvent(tick, target, "ping", nil, 0, 0)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	prev := s.Tick()
	for i := 0; i < 10; i++ {
		got := s.Step()
		if got < prev {
			t.Fatalf("clock went backwards: %v after %v", got, prev)
		}
		prev = got
	}
}

func TestSchedule_RecurringEvent_DispatchesAtFixedIntervals(t *testing.T) {
	// GIVEN a recurring event first due at tick 1 with interval 2
	s := NewSchedule(0)
	target := &tickLogger{schedule: s}
	require.NoError(t, s.Add(NewEvent(1, target, "log", nil, 0, 2)))

	// WHEN four occurrences are stepped
	for i := 0; i < 4; i++ {
		s.Step()
	}

	// THEN dispatches happened at ticks 1, 3, 5, 7
	assert.Equal(t, []float64{1, 3, 5, 7}, target.ticks)
	assert.Equal(t, 1, s.Len())
}

type tickLogger struct {
	schedule *Schedule
	ticks    []float64
}

func (l *tickLogger) Ops() map[string]Operation {
	return map[string]Operation{
		"log": func(args ...any) { l.ticks = append(l.ticks, l.schedule.Tick()) },
	}
}

func TestSchedule_RecurringEvent_PreservesPriorityByDefault(t *testing.T) {
	// GIVEN a recurring priority-7 event
	s := NewSchedule(0)
	target := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, target, "ping", nil, 7, 1)))

	// WHEN it executes once
	s.Step()

	// THEN the successor kept the priority
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 7, s.pending[0].Priority)
	assert.Equal(t, 2.0, s.pending[0].Time)
}

func TestSchedule_RecurringEvent_LegacyModeDropsPriority(t *testing.T) {
	// GIVEN a schedule configured for the historical re-scheduling behavior
	s := NewScheduleWithOptions(0, false)
	target := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, target, "ping", nil, 7, 1)))

	// WHEN the event executes once
	s.Step()

	// THEN the successor fell back to the default priority
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.pending[0].Priority)
}

func TestSchedule_UnresolvedOperation_SkipsEventOnly(t *testing.T) {
	// GIVEN an event naming an operation the target does not expose
	s := NewSchedule(0)
	target := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, target, "does-not-exist", nil, 0, 0)))
	require.NoError(t, s.Add(NewEvent(2, target, "ping", nil, 0, 0)))

	// WHEN both events are stepped
	s.Step()
	got := s.Step()

	// THEN the unresolved event was skipped and the simulation continued
	assert.Len(t, target.calls, 1)
	assert.Equal(t, 2.0, got)
}

func TestSchedule_Purge_RemovesAllEventsForTarget(t *testing.T) {
	// GIVEN interleaved events for two targets, including recurring ones
	s := NewSchedule(0)
	doomed := &recordingTarget{}
	kept := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, doomed, "ping", nil, 0, 1)))
	require.NoError(t, s.Add(NewEvent(1, kept, "ping", nil, 1, 0)))
	require.NoError(t, s.Add(NewEvent(2, doomed, "ping", nil, 0, 0)))
	require.NoError(t, s.Add(NewEvent(3, kept, "ping", nil, 0, 0)))

	// WHEN the doomed target is purged and the schedule drains
	s.Purge(doomed)
	for s.Len() > 0 {
		s.Step()
	}

	// THEN no event for the purged target ever dispatched
	assert.Empty(t, doomed.calls)
	assert.Len(t, kept.calls, 2)
}

func TestSchedule_Purge_KeepsRemainingOrder(t *testing.T) {
	// GIVEN events for two targets with deliberate tie-breaks
	s := NewSchedule(0)
	var order []int
	doomed := &recordingTarget{}
	a := &fifoTarget{id: 1, order: &order}
	b := &fifoTarget{id: 2, order: &order}
	require.NoError(t, s.Add(NewEvent(1, a, "mark", nil, 0, 0)))
	require.NoError(t, s.Add(NewEvent(1, doomed, "ping", nil, 0, 0)))
	require.NoError(t, s.Add(NewEvent(1, b, "mark", nil, 0, 0)))

	// WHEN the middle target is purged and the rest drains
	s.Purge(doomed)
	for s.Len() > 0 {
		s.Step()
	}

	// THEN the survivors kept their relative order
	assert.Equal(t, []int{1, 2}, order)
}

func TestSchedule_Clear_EmptiesPendingSet(t *testing.T) {
	s := NewSchedule(0)
	target := &recordingTarget{}
	for i := 0; i < 5; i++ {
		if err := s.Add(NewEvent(float64(i), target, "ping", nil, 0, 1)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Clear: %d events still pending", s.Len())
	}
	if got := s.Step(); got != 0 {
		t.Errorf("Step after Clear: tick %v, want 0", got)
	}
}

func TestSchedule_Dispatch_UnpacksArgsPositionally(t *testing.T) {
	// GIVEN an event carrying positional arguments
	s := NewSchedule(0)
	target := &recordingTarget{}
	require.NoError(t, s.Add(NewEvent(1, target, "ping", []any{"a", 2, 3.0}, 0, 0)))

	// WHEN it dispatches
	s.Step()

	// THEN the operation saw the arguments in order
	require.Len(t, target.calls, 1)
	assert.Equal(t, []any{"a", 2, 3.0}, target.calls[0].args)
}
