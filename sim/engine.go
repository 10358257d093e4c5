package sim

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Engine owns the schedule and the context and drives the run loop. A run
// ends when the time budget is spent, the pending queue drains, or Abort is
// called; none of these are error paths.
type Engine struct {
	modelTime float64
	schedule  *Schedule
	context   *Context
	runID     uuid.UUID
	aborted   bool
}

// NewEngine creates an engine with a total simulated-time budget and spatial
// bounds, per-axis minimum first: [min_x, min_y, min_z, max_x, max_y, max_z].
func NewEngine(modelTime float64, bounds [6]float64) *Engine {
	return &Engine{
		modelTime: modelTime,
		schedule:  NewSchedule(0),
		context:   NewContext(bounds),
		runID:     uuid.New(),
	}
}

// Run executes events until the clock passes the model time or the schedule
// drains, updating the clock from each step's return value. Calling Run after
// an abort is a no-op since the queue is already empty.
func (e *Engine) Run() {
	logrus.Infof("Run %s starting: modelTime=%.3f, pending=%d", e.runID, e.modelTime, e.schedule.Len())
	tick := e.schedule.Tick()
	for tick <= e.modelTime && e.schedule.Len() > 0 {
		tick = e.schedule.Step()
	}
	logrus.Infof("[tick %010.3f] Run %s ended", tick, e.runID)
	e.logSummary()
}

// Abort drops every pending event and records where the clock stopped. It is
// a deliberate short-circuit: side effects already committed by earlier
// dispatches stay committed.
func (e *Engine) Abort() {
	e.schedule.Clear()
	e.aborted = true
	logrus.Infof("[tick %010.3f] Run %s aborted", e.Tick(), e.runID)
}

// Retire removes an agent from the context and purges every pending event
// targeting it or its sensor. Both halves are required together: removal
// alone would leave dispatches aimed at a gone agent.
func (e *Engine) Retire(a Agent) {
	e.context.Remove(a)
	e.schedule.Purge(a)
	if s := a.Sensor(); s != nil {
		e.schedule.Purge(s)
	}
}

// Tick returns the current simulated clock. The schedule's clock is
// authoritative, so records taken mid-dispatch see the tick of the event
// being executed, not the previous one.
func (e *Engine) Tick() float64 { return e.schedule.Tick() }

// ModelTime returns the total simulated-time budget.
func (e *Engine) ModelTime() float64 { return e.modelTime }

// Schedule returns the engine's event schedule.
func (e *Engine) Schedule() *Schedule { return e.schedule }

// Context returns the engine's spatial registry.
func (e *Engine) Context() *Context { return e.context }

// RunID identifies this engine run in logs and exports.
func (e *Engine) RunID() uuid.UUID { return e.runID }

// Aborted reports whether Abort ended the run.
func (e *Engine) Aborted() bool { return e.aborted }

// logSummary reports end-of-run statistics: event counts, the final census,
// and the distribution of samples across sensored agents.
func (e *Engine) logSummary() {
	logrus.Infof("Events executed      : %d", e.schedule.Executed)
	logrus.Infof("Stale events dropped : %d", e.schedule.Discarded)
	for kind, n := range e.context.CountByKind() {
		logrus.Infof("Final census %-8s: %d", kind, n)
	}

	var samples []float64
	for _, a := range e.context.Agents() {
		if s := a.Sensor(); s != nil {
			samples = append(samples, float64(len(s.Log())))
		}
	}
	if len(samples) > 0 {
		logrus.Infof("Sensor samples/agent : mean=%.2f stddev=%.2f",
			stat.Mean(samples, nil), stat.StdDev(samples, nil))
	}
}
