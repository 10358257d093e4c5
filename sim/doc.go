// Package sim provides a generic discrete-event, agent-based simulation kernel.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - event.go: the Event descriptor, dispatch targets, and per-kind operation tables
//   - schedule.go: the ordered pending-event queue and the step/dispatch loop
//   - engine.go: the run-to-completion driver that owns the schedule and the context
//
// # Architecture
//
// The kernel is split between time and space. The Schedule owns time: a heap
// of pending events ordered by (tick, priority, insertion order) that advances
// a virtual clock one event at a time. The Context owns space: simulation
// bounds, the live agent roster, and a lazily rebuilt matrix of agent
// positions used by neighbour queries. The Engine wires the two together and
// drives the run loop until the time budget is spent, the queue drains, or
// Abort is called.
//
// Domain agents embed Base for identity, motion, and neighbour search, and
// supply their own operation and accessor tables; an example domain lives in
// sim/zombies. Sensors append per-agent records as a side effect of scheduled
// operations, and the DataCollector aggregates all sensor logs for export.
//
// No reflection is used anywhere: events name operations that are resolved
// against explicit per-kind tables, and sensors resolve fields against
// explicit accessor tables. Unresolved names are reported and skipped; the
// simulation keeps advancing.
package sim
