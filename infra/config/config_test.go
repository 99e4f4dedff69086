package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	hp := cfg.Hyperparameters()
	assert.Equal(t, 2e-5, hp["learning_rate"])
	assert.Equal(t, 128.0, hp["max_seq_length"])
	assert.Equal(t, 3.0, hp["num_train_epochs"])
	assert.Len(t, hp, 7)
}

func TestLoad(t *testing.T) {

	cfg, err := Load("experiments.yaml")
	require.NoError(t, err)
	assert.Equal(t, "pere", cfg.User)
	assert.Equal(t, "1-5", cfg.Selector)
	// values missing from the file keep their defaults
	assert.Equal(t, 64, cfg.Training.TrainBatchSize)
	assert.Equal(t, 10, cfg.Model.Neighbours)
	assert.NoError(t, cfg.Validate())

	dir := t.TempDir()
	p := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
model:
  backend: knn
catalog:
  - id: a
    name: first
    train_dataset: x
    eval_dataset: y
`), 0600))
	cfg, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, KnnBackend, cfg.Model.Backend)
	require.Len(t, cfg.Catalog, 1)
	assert.Equal(t, "x", cfg.Catalog[0].TrainDataset)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	assert.Panics(t, func() {
		MustLoad(filepath.Join(dir, "missing.yaml"))
	})
}

func TestValidate(t *testing.T) {

	type test struct {
		mutate func(cfg *Config)
	}

	tests := map[string]test{
		"no-user":     {mutate: func(cfg *Config) { cfg.User = "" }},
		"no-repeats":  {mutate: func(cfg *Config) { cfg.Repeats = 0 }},
		"no-steps":    {mutate: func(cfg *Config) { cfg.Model.Steps = 0 }},
		"no-labels":   {mutate: func(cfg *Config) { cfg.Model.Labels = nil }},
		"bad-backend": {mutate: func(cfg *Config) { cfg.Model.Backend = "bert" }},
		"no-output":   {mutate: func(cfg *Config) { cfg.Paths.Output = "" }},
		"no-features": {mutate: func(cfg *Config) { cfg.Model.Features = 0 }},
		"user-path":   {mutate: func(cfg *Config) { cfg.User = "../other" }},
		"user-parent": {mutate: func(cfg *Config) { cfg.User = ".." }},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
