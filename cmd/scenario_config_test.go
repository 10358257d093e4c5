package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
scenarios:
  default:
    model_time: 500
    persons: 20
    zombies: 2
    seed: 11
  outbreak:
    model_time: 2000
    bounds: [-50, -50, 1, 50, 50, 1]
    persons: 40
    zombies: 5
    person_speed: 1.5
    zombie_speed: 2
    sample_interval: 5
    seed: 42
`

func writeSampleConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	return path
}

func TestGetScenarioConfig_LoadsPreset(t *testing.T) {
	path := writeSampleConfig(t)

	sc, err := GetScenarioConfig(path, "outbreak")

	require.NoError(t, err)
	assert.Equal(t, 2000.0, sc.ModelTime)
	assert.Equal(t, [6]float64{-50, -50, 1, 50, 50, 1}, sc.Bounds)
	assert.Equal(t, 40, sc.Persons)
	assert.Equal(t, 5, sc.Zombies)
	assert.Equal(t, 1.5, sc.PersonSpeed)
	assert.Equal(t, 2.0, sc.ZombieSpeed)
	assert.Equal(t, 5.0, sc.SampleInterval)
	assert.Equal(t, int64(42), sc.Seed)
}

func TestGetScenarioConfig_UnsetFieldsKeepDefaults(t *testing.T) {
	path := writeSampleConfig(t)

	sc, err := GetScenarioConfig(path, "default")

	require.NoError(t, err)
	// overridden by the preset
	assert.Equal(t, 500.0, sc.ModelTime)
	assert.Equal(t, 20, sc.Persons)
	// untouched defaults
	assert.Equal(t, [6]float64{-100, -100, 1, 100, 100, 1}, sc.Bounds)
	assert.Equal(t, 1.0, sc.PersonSpeed)
	assert.Equal(t, 10.0, sc.SampleInterval)
}

func TestGetScenarioConfig_UnknownPreset_ReturnsError(t *testing.T) {
	path := writeSampleConfig(t)

	_, err := GetScenarioConfig(path, "nope")

	assert.Error(t, err)
}

func TestGetScenarioConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := GetScenarioConfig(filepath.Join(t.TempDir(), "absent.yaml"), "default")
	assert.Error(t, err)
}

func TestGetScenarioConfig_BadBoundsLength_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	bad := "scenarios:\n  default:\n    bounds: [1, 2, 3]\n"
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := GetScenarioConfig(path, "default")

	assert.Error(t, err)
}
