package scenarios

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		sc, err := Load(f)
		require.NoError(t, err, f)
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestGADefOverrides(t *testing.T) {
	zero := 0.0
	cfg := GADef{PopulationSize: 8, MaxPenalty: &zero}.ToConfig()
	assert.Equal(t, 8, cfg.PopulationSize)
	assert.Equal(t, 20, cfg.Generations)
	assert.Equal(t, 0.0, cfg.MaxPenalty)
	assert.Equal(t, 1e4, cfg.InitialPenalty)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("no-file.yaml")
	assert.Error(t, err, "expected error for missing file")

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(":"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err, "expected unmarshal error")

	anon := filepath.Join(dir, "anon.yaml")
	require.NoError(t, os.WriteFile(anon, []byte("demand: [1]\n"), 0o600))
	_, err = Load(anon)
	assert.ErrorContains(t, err, "name is required")
}
