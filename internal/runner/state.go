package runner

import (
	"github.com/drakos74/multilang-experiments/client"
	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/drakos74/multilang-experiments/internal/storage/workspace"
)

// State is the position of the runner within an experiment sequence.
type State string

const (
	Idle       State = "idle"
	CheckReuse State = "check_reuse"
	Train      State = "train"
	Evaluate   State = "evaluate"
	Score      State = "score"
	Persist    State = "persist"
	Done       State = "done"
	Failed     State = "failed"
)

// session carries everything the phases of one sequence hand over to each other.
type session struct {
	// trained is the dataset the current handle was trained on.
	trained   string
	handle    client.Handle
	workspace workspace.Workspace
	labels    model.LabelMapping

	// per experiment
	index       int
	experiment  model.Experiment
	retrained   bool
	predictions []client.Prediction
	evaluation  client.Evaluation
	yTrue       []int
	yPred       []int
	scores      model.Scores
}

// next resets the per experiment fields.
func (s *session) next(index int, experiment model.Experiment) {
	s.index = index
	s.experiment = experiment
	s.retrained = false
	s.predictions = nil
	s.evaluation = client.Evaluation{}
	s.yTrue = nil
	s.yPred = nil
	s.scores = nil
}

// reuse reports whether the current handle serves the experiment.
func (s *session) reuse() bool {
	return s.handle != nil && s.trained == s.experiment.TrainDataset
}
