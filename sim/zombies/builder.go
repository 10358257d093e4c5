package zombies

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	sim "github.com/tm-carl/GABSE/sim"
)

// Scenario holds everything needed to reproduce a zombie run. Identical
// scenarios with identical seeds produce identical exports.
type Scenario struct {
	ModelTime      float64
	Bounds         [6]float64
	Persons        int
	Zombies        int
	PersonSpeed    float64
	ZombieSpeed    float64
	SampleInterval float64
	Seed           int64
}

// DefaultScenario mirrors the classic 100-person, single-zombie setup on a
// 200x200 plane with z pinned to 1.
func DefaultScenario() Scenario {
	return Scenario{
		ModelTime:      10000,
		Bounds:         [6]float64{-100, -100, 1, 100, 100, 1},
		Persons:        100,
		Zombies:        1,
		PersonSpeed:    1,
		ZombieSpeed:    1,
		SampleInterval: 10,
		Seed:           0,
	}
}

// World bundles a built engine with its data collector.
type World struct {
	Engine    *sim.Engine
	Collector *sim.DataCollector
}

// Build populates an engine from the scenario: persons with recurring "run"
// behavior at the default priority, zombies with recurring "hunt" behavior at
// a lower precedence, and one census agent. Placement draws from the
// scenario-seeded placement RNG; axes whose bounds coincide are pinned.
func Build(sc Scenario) *World {
	engine := sim.NewEngine(sc.ModelTime, sc.Bounds)
	ctx := engine.Context()
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sc.Seed)).ForSubsystem(sim.SubsystemPlacement)

	for i := 0; i < sc.Persons; i++ {
		p := NewPerson(engine, sc.PersonSpeed, randomPosition(rng, sc.Bounds), sc.SampleInterval)
		ctx.Add(p)
		mustSchedule(engine, sim.NewEvent(1, p, "run", nil, 0, 1))
	}

	for i := 0; i < sc.Zombies; i++ {
		z := NewZombie(engine, sc.ZombieSpeed, randomPosition(rng, sc.Bounds), sc.SampleInterval)
		ctx.Add(z)
		mustSchedule(engine, sim.NewEvent(1, z, "hunt", nil, 10, 1))
	}

	ctx.Add(NewCensus(engine))

	logrus.Infof("Built world: %d persons, %d zombies, bounds=%v", sc.Persons, sc.Zombies, sc.Bounds)

	return &World{
		Engine:    engine,
		Collector: sim.NewDataCollector(engine),
	}
}

// randomPosition draws a uniform position inside the bounds. A collapsed
// axis (min == max) stays at its pinned value.
func randomPosition(rng *rand.Rand, bounds [6]float64) []float64 {
	pos := make([]float64, 3)
	for i := 0; i < 3; i++ {
		lo, hi := bounds[i], bounds[i+3]
		if lo == hi {
			pos[i] = lo
			continue
		}
		pos[i] = lo + rng.Float64()*(hi-lo)
	}
	return pos
}
