package runner

import (
	"fmt"

	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/drakos74/multilang-experiments/internal/server"
	"github.com/drakos74/multilang-experiments/internal/storage"
)

// Status is the live view of the runner.
type Status struct {
	State      State          `json:"state"`
	Experiment string         `json:"experiment,omitempty"`
	Results    []model.Result `json:"results"`
}

// Status reports the runner state along with the results registered so far.
func (r *Runner) Status() (Status, error) {
	state, experiment := r.State()
	results := make([]model.Result, 0)
	if err := r.registry.GetAll(storage.K{
		Group: storage.RegistryPath,
		Label: storage.ResultLabel,
	}, &results); err != nil {
		return Status{}, fmt.Errorf("could not read results: %w", err)
	}
	return Status{
		State:      state,
		Experiment: experiment,
		Results:    results,
	}, nil
}

// StatusRoute exposes the runner status under '/api/status'.
func StatusRoute(r *Runner) server.Route {
	return server.Json(server.Api, "status", func() (interface{}, error) {
		return r.Status()
	})
}
