package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tm-carl/GABSE/sim/zombies"
)

// Define struct for YAML
type ScenarioConfig struct {
	Scenarios map[string]ScenarioPreset `yaml:"scenarios"`
}

type ScenarioPreset struct {
	ModelTime      float64   `yaml:"model_time"`
	Bounds         []float64 `yaml:"bounds"`
	Persons        int       `yaml:"persons"`
	Zombies        int       `yaml:"zombies"`
	PersonSpeed    float64   `yaml:"person_speed"`
	ZombieSpeed    float64   `yaml:"zombie_speed"`
	SampleInterval float64   `yaml:"sample_interval"`
	Seed           int64     `yaml:"seed"`
}

// GetScenarioConfig loads a named preset from a YAML file and materializes it
// as a runnable scenario. Fields the preset leaves at zero keep the default
// scenario's values.
func GetScenarioConfig(path string, name string) (zombies.Scenario, error) {
	sc := zombies.DefaultScenario()

	data, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}

	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return sc, err
	}

	preset, ok := cfg.Scenarios[name]
	if !ok {
		return sc, fmt.Errorf("scenario %q not found in %s", name, path)
	}
	logrus.Infof("Using preset scenario %v", name)

	if preset.ModelTime > 0 {
		sc.ModelTime = preset.ModelTime
	}
	if len(preset.Bounds) == 6 {
		copy(sc.Bounds[:], preset.Bounds)
	} else if len(preset.Bounds) != 0 {
		return sc, fmt.Errorf("scenario %q: bounds needs six values, got %d", name, len(preset.Bounds))
	}
	if preset.Persons > 0 {
		sc.Persons = preset.Persons
	}
	if preset.Zombies > 0 {
		sc.Zombies = preset.Zombies
	}
	if preset.PersonSpeed > 0 {
		sc.PersonSpeed = preset.PersonSpeed
	}
	if preset.ZombieSpeed > 0 {
		sc.ZombieSpeed = preset.ZombieSpeed
	}
	if preset.SampleInterval > 0 {
		sc.SampleInterval = preset.SampleInterval
	}
	if preset.Seed != 0 {
		sc.Seed = preset.Seed
	}

	return sc, nil
}
