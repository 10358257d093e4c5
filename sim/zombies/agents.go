// Package zombies is the example domain shipped with the kernel: persons flee
// the nearest zombie, zombies chase and convert the nearest living person,
// and a census agent samples the population each tick.
package zombies

import (
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	sim "github.com/tm-carl/GABSE/sim"
)

// Kind tags for the example agents.
const (
	KindPerson = "person"
	KindZombie = "zombie"
	KindCensus = "census"
)

const (
	// fleeRange is the distance within which a person reacts to a zombie.
	fleeRange = 10.0
	// biteRange is the distance at which a zombie converts its prey.
	biteRange = 1.0
	// sensorPriority orders sampling after behavior at the same tick.
	sensorPriority = math.MaxInt32
)

// Person flees the nearest zombie. Dead persons stay registered so their
// sensor log survives until export, but their pending events are purged on
// conversion.
type Person struct {
	*sim.Base
	engine *sim.Engine
	speed  float64
	alive  bool
}

// NewPerson creates a person with an attached sensor sampling position and
// liveness every sampleInterval ticks, starting one tick from now.
func NewPerson(engine *sim.Engine, speed float64, position []float64, sampleInterval float64) *Person {
	p := &Person{
		Base:   sim.NewBase(engine.Context(), position),
		engine: engine,
		speed:  speed,
		alive:  true,
	}
	attachSensor(engine, p, sampleInterval, "position", "alive")
	return p
}

func (p *Person) Kind() string { return KindPerson }

func (p *Person) Ops() map[string]sim.Operation {
	return map[string]sim.Operation{
		"run": func(args ...any) { p.Run() },
	}
}

func (p *Person) Accessors() map[string]sim.Accessor {
	return map[string]sim.Accessor{
		"position": func() any { return p.Position() },
		"is_alive": func() any { return p.alive },
	}
}

// Run moves the person directly away from the nearest zombie when it is
// within flee range.
func (p *Person) Run() {
	zombie := p.NearestNeighbour(p.Registry().AgentsByKind(KindZombie))
	if zombie == nil {
		return
	}
	away := direction(zombie.Position(), p.Position())
	if away == nil {
		return
	}
	dist := p.DistanceTo(zombie)
	if dist >= fleeRange {
		return
	}
	floats.Scale(p.speed, away)
	p.MoveBy(away)
}

// Speed returns the person's movement speed per tick.
func (p *Person) Speed() float64 { return p.speed }

// Alive reports whether the person has not been converted.
func (p *Person) Alive() bool { return p.alive }

// SetAlive marks the person dead or alive.
func (p *Person) SetAlive(alive bool) { p.alive = alive }

// Zombie chases the nearest living person and converts it at bite range.
type Zombie struct {
	*sim.Base
	engine *sim.Engine
	speed  float64
}

// NewZombie creates a zombie with a position-only sensor.
func NewZombie(engine *sim.Engine, speed float64, position []float64, sampleInterval float64) *Zombie {
	z := &Zombie{
		Base:   sim.NewBase(engine.Context(), position),
		engine: engine,
		speed:  speed,
	}
	attachSensor(engine, z, sampleInterval, "position")
	return z
}

func (z *Zombie) Kind() string { return KindZombie }

func (z *Zombie) Ops() map[string]sim.Operation {
	return map[string]sim.Operation{
		"hunt": func(args ...any) { z.Hunt() },
	}
}

func (z *Zombie) Accessors() map[string]sim.Accessor {
	return map[string]sim.Accessor{
		"position": func() any { return z.Position() },
	}
}

// Hunt steps toward the nearest living person and converts it when close
// enough. With nobody left to hunt the run is over and the engine aborts.
func (z *Zombie) Hunt() {
	prey := z.NearestNeighbour(z.livingPersons())
	if prey == nil {
		z.engine.Abort()
		return
	}

	if toward := direction(z.Position(), prey.Position()); toward != nil {
		floats.Scale(z.speed, toward)
		z.MoveBy(toward)
	}

	if z.DistanceTo(prey) < biteRange {
		z.convert(prey.(*Person))
	}
}

// convert turns a person into a fresh zombie at its position. The victim is
// marked dead and its pending events, sensor sampling included, are purged;
// the victim itself stays registered so its log is still collected.
func (z *Zombie) convert(victim *Person) {
	spawn := NewZombie(z.engine, z.speed, victim.Position(), 10.0)
	z.engine.Context().Add(spawn)
	mustSchedule(z.engine, sim.NewEvent(z.engine.Tick()+1, spawn, "hunt", nil, 10, 1))

	victim.SetAlive(false)
	z.engine.Schedule().Purge(victim)
	if s := victim.Sensor(); s != nil {
		z.engine.Schedule().Purge(s)
	}

	if len(z.livingPersons()) == 0 {
		logrus.Info("The world is lost... everyone is a zombie")
		z.engine.Abort()
	}
}

func (z *Zombie) livingPersons() []sim.Agent {
	var out []sim.Agent
	for _, a := range z.engine.Context().AgentsByKind(KindPerson) {
		if p, ok := a.(*Person); ok && p.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// Speed returns the zombie's movement speed per tick.
func (z *Zombie) Speed() float64 { return z.speed }

// Census logs the population count per kind once per tick.
type Census struct {
	*sim.Base
	engine *sim.Engine
}

// NewCensus creates the census agent at the origin.
func NewCensus(engine *sim.Engine) *Census {
	c := &Census{
		Base:   sim.NewBase(engine.Context(), nil),
		engine: engine,
	}
	attachSensor(engine, c, 1.0, "agent_counts")
	return c
}

func (c *Census) Kind() string { return KindCensus }

func (c *Census) Ops() map[string]sim.Operation { return nil }

func (c *Census) Accessors() map[string]sim.Accessor {
	return map[string]sim.Accessor{
		"agent_counts": func() any { return c.engine.Context().CountByKind() },
	}
}

// attachSensor binds a sensor to the agent and schedules its recurring
// record events, one tick from now, at sensor priority so sampling always
// observes the post-update state of a tick.
func attachSensor(engine *sim.Engine, a interface {
	sim.Agent
	AttachSensor(*sim.Sensor)
}, interval float64, fields ...string) {
	s := sim.NewSensor(engine, a, interval)
	a.AttachSensor(s)

	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	mustSchedule(engine, sim.NewEvent(engine.Tick()+1, s, "record", args, sensorPriority, s.Interval()))
}

func mustSchedule(engine *sim.Engine, ev *sim.Event) {
	if err := engine.Schedule().Add(ev); err != nil {
		logrus.Warnf("could not schedule %q: %v", ev.Op, err)
	}
}

// direction returns the unit vector from p toward q, or nil when the two
// coincide.
func direction(p, q []float64) []float64 {
	d := make([]float64, len(q))
	floats.SubTo(d, q, p)
	n := floats.Norm(d, 2)
	if n == 0 {
		return nil
	}
	floats.Scale(1/n, d)
	return d
}
