package cmd

import (
	"encoding/json"
	"os"

	sim "github.com/tm-carl/GABSE/sim"
	"github.com/tm-carl/GABSE/sim/zombies"
)

// ExportEnvelope is the on-disk shape of a finished run: run identity, the
// configured budget, where the clock stopped, and every agent's sensor log
// keyed by "<kind> <id>".
type ExportEnvelope struct {
	RunID     string                  `json:"run_id"`
	ModelTime float64                 `json:"model_time"`
	FinalTick float64                 `json:"final_tick"`
	Repo      map[string][]sim.Record `json:"repo"`
}

// WriteExport serializes the collected repo as indented JSON.
func WriteExport(path string, world *zombies.World) error {
	envelope := ExportEnvelope{
		RunID:     world.Engine.RunID().String(),
		ModelTime: world.Engine.ModelTime(),
		FinalTick: world.Engine.Tick(),
		Repo:      world.Collector.Export(),
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
