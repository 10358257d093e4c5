package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tm-carl/GABSE/sim/zombies"
)

var (
	// CLI flags for the simulation run
	seed           int64   // Seed for deterministic placement and behavior
	modelTime      float64 // Total simulated time budget (in ticks)
	logLevel       string  // Log verbosity level
	persons        int     // Number of persons to populate
	zombieCount    int     // Number of zombies to populate
	personSpeed    float64 // Person movement speed per tick
	zombieSpeed    float64 // Zombie movement speed per tick
	sampleInterval float64 // Sensor sampling interval (in ticks)
	bounds         []float64

	// CLI flags for scenario presets and export
	scenarioFile string // Path to a YAML scenario preset file
	scenarioName string // Name of the preset inside the file
	outputPath   string // Where to write the exported JSON repo
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "gabse",
	Short: "Generic agent-based discrete-event simulation engine",
}

// runCmd executes the bundled zombie scenario using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the zombie example simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		sc := zombies.DefaultScenario()
		if scenarioFile != "" {
			preset, err := GetScenarioConfig(scenarioFile, scenarioName)
			if err != nil {
				logrus.Fatalf("unable to read scenario config: %v", err)
			}
			sc = preset
		}
		applyFlagOverrides(cmd, &sc)

		logrus.Infof("Starting simulation: modelTime=%.0f ticks, persons=%d, zombies=%d, seed=%d",
			sc.ModelTime, sc.Persons, sc.Zombies, sc.Seed)

		startTime := time.Now()

		world := zombies.Build(sc)
		world.Engine.Run()
		world.Collector.Collect()

		logrus.Infof("Simulation completed in %s", time.Since(startTime))

		if err := WriteExport(outputPath, world); err != nil {
			logrus.Fatalf("unable to write export: %v", err)
		}
		logrus.Infof("Export written to %s", outputPath)
	},
}

// applyFlagOverrides lets explicit flags win over preset values.
func applyFlagOverrides(cmd *cobra.Command, sc *zombies.Scenario) {
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	if cmd.Flags().Changed("model-time") {
		sc.ModelTime = modelTime
	}
	if cmd.Flags().Changed("persons") {
		sc.Persons = persons
	}
	if cmd.Flags().Changed("zombies") {
		sc.Zombies = zombieCount
	}
	if cmd.Flags().Changed("person-speed") {
		sc.PersonSpeed = personSpeed
	}
	if cmd.Flags().Changed("zombie-speed") {
		sc.ZombieSpeed = zombieSpeed
	}
	if cmd.Flags().Changed("sample-interval") {
		sc.SampleInterval = sampleInterval
	}
	if cmd.Flags().Changed("bounds") {
		if len(bounds) != 6 {
			logrus.Fatalf("--bounds needs six values (min_x,min_y,min_z,max_x,max_y,max_z), got %d", len(bounds))
		}
		copy(sc.Bounds[:], bounds)
	}
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for deterministic placement and behavior")
	runCmd.Flags().Float64Var(&modelTime, "model-time", 10000, "Total simulated time budget in ticks")
	runCmd.Flags().StringVar(&logLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().IntVar(&persons, "persons", 100, "Number of persons")
	runCmd.Flags().IntVar(&zombieCount, "zombies", 1, "Number of zombies")
	runCmd.Flags().Float64Var(&personSpeed, "person-speed", 1, "Person movement speed per tick")
	runCmd.Flags().Float64Var(&zombieSpeed, "zombie-speed", 1, "Zombie movement speed per tick")
	runCmd.Flags().Float64Var(&sampleInterval, "sample-interval", 10, "Sensor sampling interval in ticks")
	runCmd.Flags().Float64SliceVar(&bounds, "bounds", nil, "Spatial bounds: min_x,min_y,min_z,max_x,max_y,max_z")
	runCmd.Flags().StringVar(&scenarioFile, "scenario-config", "", "Path to a YAML scenario preset file")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "default", "Preset name inside the scenario config")
	runCmd.Flags().StringVar(&outputPath, "output", "simulation_data.json", "Path for the exported JSON repo")

	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
