package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// TimeField is the canonical key carrying the record timestamp. Every other
// key in a record matches the accessor name it was requested under.
const TimeField = "tick"

// Record is one timestamped snapshot of an agent's observed fields.
type Record map[string]any

// Sensor logs structured snapshots of exactly one agent over the life of a
// simulation. It decides nothing about timing: the sample interval is carried
// for whoever schedules the recurring record events (see sim/zombies for the
// usual wiring), and the sensor is itself a dispatch target so those events
// can name it directly.
type Sensor struct {
	engine   *Engine
	owner    Agent
	interval float64
	log      []Record
}

// NewSensor binds a sensor to its owning agent. interval is the intended
// sample spacing in ticks, informational to the sensor itself.
func NewSensor(engine *Engine, owner Agent, interval float64) *Sensor {
	return &Sensor{
		engine:   engine,
		owner:    owner,
		interval: interval,
	}
}

// Ops exposes the "record" operation so record events can be scheduled
// against the sensor like against any agent. Arguments are the field names
// to snapshot.
func (s *Sensor) Ops() map[string]Operation {
	return map[string]Operation{
		"record": func(args ...any) {
			fields := make([]string, 0, len(args))
			for _, a := range args {
				if f, ok := a.(string); ok {
					fields = append(fields, f)
				}
			}
			s.Record(fields...)
		},
	}
}

// Record appends one snapshot built from the requested fields. Each field is
// resolved against the owner's accessor table under its own name first, then
// under the boolean-style "is_<name>" convention; a field that resolves
// neither way is omitted from the record, not an error. Values are copied so
// the log can never alias the agent's mutable state.
func (s *Sensor) Record(fields ...string) {
	rec := Record{TimeField: s.engine.Tick()}
	accessors := s.owner.Accessors()
	for _, field := range fields {
		get, ok := accessors[field]
		if !ok {
			get, ok = accessors["is_"+field]
		}
		if !ok {
			logrus.Debugf("Sensor on %s %d: no accessor for %q, omitting", s.owner.Kind(), s.owner.ID(), field)
			continue
		}
		rec[field] = copyValue(get())
	}
	s.log = append(s.log, rec)
}

// copyValue snapshots an accessor result. Numeric vectors become fresh plain
// slices; count maps are copied; scalars are value types already.
func copyValue(v any) any {
	switch val := v.(type) {
	case []float64:
		out := make([]float64, len(val))
		copy(out, val)
		return out
	case map[string]int:
		out := make(map[string]int, len(val))
		for k, n := range val {
			out[k] = n
		}
		return out
	default:
		return val
	}
}

// Interval returns the intended sample spacing in ticks.
func (s *Sensor) Interval() float64 { return s.interval }

// Owner returns the observed agent.
func (s *Sensor) Owner() Agent { return s.owner }

// Log returns the append-only record log in recording order.
func (s *Sensor) Log() []Record { return s.log }

// Reset drops all recorded entries. This is the only way the log shrinks.
func (s *Sensor) Reset() { s.log = nil }

// DataCollector aggregates every registered agent's sensor log into a single
// repository keyed by "<kind> <id>", for export after a run.
type DataCollector struct {
	engine *Engine
	repo   map[string][]Record
}

// NewDataCollector creates a collector over the engine's context.
func NewDataCollector(engine *Engine) *DataCollector {
	return &DataCollector{
		engine: engine,
		repo:   make(map[string][]Record),
	}
}

// Collect walks the current roster and stores each agent's log under its
// identity key. Agents without a sensor contribute an empty log. Collect can
// run repeatedly; later runs overwrite earlier entries for agents still
// registered.
func (d *DataCollector) Collect() {
	for _, a := range d.engine.Context().Agents() {
		key := AgentKey(a)
		if s := a.Sensor(); s != nil {
			d.repo[key] = s.Log()
		} else {
			d.repo[key] = []Record{}
		}
	}
}

// Export returns the collected repository. The maps and logs are shared with
// the collector; treat the result as read-only.
func (d *DataCollector) Export() map[string][]Record {
	return d.repo
}

// AgentKey is the identity string agents are exported under.
func AgentKey(a Agent) string {
	return fmt.Sprintf("%s %d", a.Kind(), a.ID())
}
