package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"

	"github.com/drakos74/multilang-experiments/client"
	"github.com/drakos74/multilang-experiments/infra/config"
	"github.com/drakos74/multilang-experiments/internal/api"
	"github.com/drakos74/multilang-experiments/internal/catalog"
	"github.com/drakos74/multilang-experiments/internal/emoji"
	"github.com/drakos74/multilang-experiments/internal/math/score"
	"github.com/drakos74/multilang-experiments/internal/metrics"
	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/drakos74/multilang-experiments/internal/record"
	"github.com/drakos74/multilang-experiments/internal/storage"
	"github.com/drakos74/multilang-experiments/internal/storage/file/csv"
	"github.com/drakos74/multilang-experiments/internal/storage/file/json"
	"github.com/drakos74/multilang-experiments/internal/storage/workspace"
	cointime "github.com/drakos74/multilang-experiments/internal/time"
)

// Report is the outcome of one experiment sequence.
type Report struct {
	Results   []model.Result    `json:"results"`
	Trainings int               `json:"trainings"`
	Started   time.Time         `json:"started"`
	Duration  cointime.Duration `json:"duration"`
	State     State             `json:"state"`
}

// Runner executes experiment sequences, training only when the training dataset changes.
type Runner struct {
	cfg        config.Config
	catalog    *catalog.Catalog
	classifier client.Classifier
	results    storage.Log
	store      storage.Persistence
	registry   storage.Registry
	workspaces *workspace.Pool
	notifier   api.Notifier
	observer   *metrics.Observer
	now        func() time.Time
	state      State
	current    string
	lock       *sync.RWMutex
}

// New creates a new runner.
// Storage, notifications and metrics default to the locations of the config.
func New(cfg config.Config, cat *catalog.Catalog, cls client.Classifier, opts ...Option) *Runner {
	r := &Runner{
		cfg:        cfg,
		catalog:    cat,
		classifier: cls,
		results:    csv.NewLog(cfg.Paths.Log),
		store:      json.NewStore(cfg.Paths.Output),
		registry:   json.NewEventRegistry(cfg.Paths.Events),
		workspaces: workspace.NewPool(cfg.Paths.Work),
		notifier:   api.NewVoid(),
		now:        time.Now,
		state:      Idle,
		lock:       new(sync.RWMutex),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.observer == nil {
		r.observer = metrics.NewObserver()
	}
	return r
}

// State returns the current state of the runner and the experiment it is working on.
func (r *Runner) State() (State, string) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state, r.current
}

func (r *Runner) setState(state State, experiment string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.state = state
	r.current = experiment
	log.Debug().Str("state", string(state)).Str("experiment", experiment).Msg("runner")
}

// Run executes the experiments in the given order.
// All ids are checked against the catalog before anything runs.
// The first failure aborts the sequence, results persisted until then are kept.
func (r *Runner) Run(ctx context.Context, ids []string) (*Report, error) {
	experiments := make([]model.Experiment, len(ids))
	for i, id := range ids {
		e, ok := r.catalog.Get(id)
		if !ok {
			return nil, model.Errorf(model.ErrUnknownExperiment, "experiment '%s' is not in the catalog", id)
		}
		experiments[i] = e
	}

	report := &Report{
		Results: make([]model.Result, 0, len(ids)),
		Started: r.now(),
	}
	s := &session{}
	defer r.cleanup(s)

	r.setState(Idle, "")
	for i, e := range experiments {
		s.next(i+1, e)
		if err := r.execute(ctx, s, report); err != nil {
			r.setState(Failed, e.ID)
			report.State = Failed
			report.Duration = cointime.Since(report.Started)
			log.Error().
				Err(err).
				Str("experiment", e.ID).
				Int("index", s.index).
				Msg("experiment sequence failed")
			r.notify(api.NewMessage(fmt.Sprintf("experiments failed after %d of %d", len(report.Results), len(experiments))).
				AddLine(fmt.Sprintf("%s %s", emoji.Error, err.Error())))
			return report, err
		}
	}

	r.setState(Done, "")
	report.State = Done
	report.Duration = cointime.Since(report.Started)
	log.Info().
		Int("experiments", len(report.Results)).
		Int("trainings", report.Trainings).
		Str("duration", report.Duration.String()).
		Msg("experiment sequence done")
	r.notify(summaryMessage(report))
	return report, nil
}

// execute runs the phases of a single experiment.
func (r *Runner) execute(ctx context.Context, s *session, report *Report) error {
	if err := ctx.Err(); err != nil {
		return &model.PhaseError{Experiment: s.experiment.ID, Phase: model.PhaseTrain, Err: err}
	}
	r.setState(CheckReuse, s.experiment.ID)
	if !s.reuse() {
		r.setState(Train, s.experiment.ID)
		if err := r.phase(s, model.PhaseTrain, func() error {
			return r.train(ctx, s)
		}); err != nil {
			return err
		}
		report.Trainings++
	} else {
		log.Info().
			Str("experiment", s.experiment.ID).
			Str("dataset", s.trained).
			Msg("reusing trained model")
	}

	r.setState(Evaluate, s.experiment.ID)
	if err := r.phase(s, model.PhaseEvaluate, func() error {
		return r.evaluate(ctx, s)
	}); err != nil {
		return err
	}

	r.setState(Score, s.experiment.ID)
	if err := r.phase(s, model.PhaseScore, func() error {
		return r.score(s)
	}); err != nil {
		return err
	}

	r.setState(Persist, s.experiment.ID)
	return r.phase(s, model.PhasePersist, func() error {
		result, err := r.persist(s)
		if err != nil {
			return err
		}
		report.Results = append(report.Results, result)
		return nil
	})
}

// phase runs one step of the experiment, recording its duration and outcome.
func (r *Runner) phase(s *session, phase model.Phase, exec func() error) error {
	start := time.Now()
	err := exec()
	r.observer.Phase(phase, time.Since(start), err)
	if err != nil {
		return &model.PhaseError{
			Experiment: s.experiment.ID,
			Phase:      phase,
			Err:        err,
		}
	}
	return nil
}

func (r *Runner) dataDir(dataset string) string {
	return filepath.Join(r.cfg.Paths.Data, dataset)
}

// train trains a new model on the experiment training dataset and replaces the current one.
func (r *Runner) train(ctx context.Context, s *session) error {
	dataset := s.experiment.TrainDataset
	ws, err := r.workspaces.Allocate(r.cfg.User)
	if err != nil {
		return model.Wrap(model.ErrPersistence, err, "could not allocate workspace")
	}

	start := time.Now()
	h, err := r.classifier.Train(ctx, client.TrainRequest{
		Dataset:   dataset,
		DataDir:   r.dataDir(dataset),
		Workspace: ws.Path,
		Steps:     r.cfg.Model.Steps,
	})
	if err != nil {
		return model.Wrap(model.ErrExternalCapability, err, "could not train on '%s'", dataset)
	}
	r.release(s)
	s.handle = h
	s.workspace = ws
	s.labels = h.Labels()
	s.trained = dataset
	s.retrained = true
	r.observer.Trained()
	log.Info().
		Str("experiment", s.experiment.ID).
		Str("dataset", dataset).
		Str("run", ws.RunID).
		Float64("duration", time.Since(start).Seconds()).
		Msg("trained model")

	predictions, err := r.classifier.Predict(ctx, h, r.dataDir(dataset), client.TrainSplit)
	if err != nil {
		return model.Wrap(model.ErrExternalCapability, err, "could not predict training set '%s'", dataset)
	}
	return r.savePredictions(s, predictions, model.Train)
}

// evaluate predicts the evaluation dataset with the current model.
func (r *Runner) evaluate(ctx context.Context, s *session) error {
	dataset := s.experiment.EvalDataset
	predictions, err := r.classifier.Predict(ctx, s.handle, r.dataDir(dataset), client.DevSplit)
	if err != nil {
		return model.Wrap(model.ErrExternalCapability, err, "could not predict '%s'", dataset)
	}
	evaluation, err := r.classifier.Evaluate(ctx, s.handle, r.dataDir(dataset))
	if err != nil {
		return model.Wrap(model.ErrExternalCapability, err, "could not evaluate '%s'", dataset)
	}
	s.predictions = predictions
	s.evaluation = evaluation
	log.Info().
		Str("experiment", s.experiment.ID).
		Str("dataset", dataset).
		Int("examples", len(predictions)).
		Float64("eval_loss", evaluation.EvalLoss).
		Msg("evaluated model")
	return nil
}

// score computes the metrics of the evaluation predictions.
func (r *Runner) score(s *session) error {
	s.yTrue = make([]int, len(s.predictions))
	s.yPred = make([]int, len(s.predictions))
	for i, p := range s.predictions {
		if len(p.Probabilities) == 0 {
			return model.Errorf(model.ErrInvalidInput, "no probabilities for '%s'", p.ExampleID)
		}
		if err := record.Validate(p.Probabilities); err != nil {
			return model.Wrap(model.ErrInvalidInput, err, "invalid probabilities for '%s'", p.ExampleID)
		}
		s.yTrue[i] = p.Label
		s.yPred[i] = floats.MaxIdx(p.Probabilities)
	}
	scores, err := score.Compute(s.yTrue, s.yPred, s.labels)
	if err != nil {
		return err
	}
	s.scores = scores
	return nil
}

// persist stores the evaluation predictions and appends the result to the logs.
func (r *Runner) persist(s *session) (model.Result, error) {
	if err := r.savePredictions(s, s.predictions, model.Dev); err != nil {
		return model.Result{}, err
	}

	name := r.cfg.Model.Name
	if name == "" {
		name = r.classifier.Name()
	}
	result := model.Result{
		Index:           s.index,
		ExperimentID:    s.experiment.ID,
		ExperimentName:  s.experiment.Name,
		RunID:           s.workspace.RunID,
		Date:            r.now().UTC(),
		User:            r.cfg.User,
		Model:           name,
		TrainSteps:      r.cfg.Model.Steps,
		TrainDataset:    s.experiment.TrainDataset,
		EvalDataset:     s.experiment.EvalDataset,
		Trained:         s.retrained,
		Hyperparameters: r.cfg.Hyperparameters(),
		Loss:            s.evaluation.Loss,
		EvalLoss:        s.evaluation.EvalLoss,
		Comment:         r.cfg.Comment,
		Scores:          s.scores,
	}
	if err := r.results.Append(result.Row()); err != nil {
		return model.Result{}, model.Wrap(model.ErrPersistence, err, "could not append result row")
	}
	if err := r.registry.Add(storage.K{
		Group: storage.RegistryPath,
		Label: storage.ResultLabel,
	}, result); err != nil {
		return model.Result{}, model.Wrap(model.ErrPersistence, err, "could not register result")
	}
	log.Info().
		Str("experiment", s.experiment.ID).
		Str("run", result.RunID).
		Float64("accuracy", s.scores["accuracy"]).
		Float64("f1_macro", s.scores["f1_macro"]).
		Msg("persisted result")
	return result, nil
}

// savePredictions records the predictions and writes them to the prediction store.
func (r *Runner) savePredictions(s *session, predictions []client.Prediction, tag model.Tag) error {
	in := record.Input{
		ExperimentID:  s.experiment.ID,
		ExampleIDs:    make([]string, len(predictions)),
		Probabilities: make([][]float64, len(predictions)),
		TrueLabels:    make([]int, len(predictions)),
		Labels:        s.labels,
		Tag:           tag,
	}
	if r.cfg.CaptureState {
		in.State = make([][]float64, len(predictions))
	}
	for i, p := range predictions {
		in.ExampleIDs[i] = p.ExampleID
		in.Probabilities[i] = p.Probabilities
		in.TrueLabels[i] = p.Label
		if in.State != nil {
			in.State[i] = p.State
		}
	}
	output, err := record.Build(in)
	if err != nil {
		return err
	}
	key := storage.Key{
		Experiment: s.experiment.ID,
		Index:      s.index,
		Run:        s.workspace.RunID,
		Label:      string(tag),
	}
	if err := r.store.Store(key, output); err != nil {
		return model.Wrap(model.ErrPersistence, err, "could not store %s predictions", tag)
	}
	log.Debug().
		Str("key", key.Path()).
		Int("records", output.Len()).
		Msg("stored predictions")
	return nil
}

// release gives up the current model, if any.
func (r *Runner) release(s *session) {
	if s.handle == nil {
		return
	}
	if err := r.classifier.Release(s.handle); err != nil {
		log.Warn().Err(err).Str("dataset", s.trained).Msg("could not release model")
	}
	s.handle = nil
	s.trained = ""
}

// cleanup releases the last model and removes all the workspaces of the sequence.
func (r *Runner) cleanup(s *session) {
	r.release(s)
	if err := r.workspaces.ReleaseAll(); err != nil {
		log.Warn().Err(err).Msg("could not clean up workspaces")
	}
}

func (r *Runner) notify(message *api.Message) {
	if err := r.notifier.Send(message); err != nil {
		log.Warn().Err(err).Msg("could not send notification")
	}
}

func summaryMessage(report *Report) *api.Message {
	msg := api.NewMessage(fmt.Sprintf("experiments done: %d results, %d trainings in %s",
		len(report.Results), report.Trainings, report.Duration.String()))
	for _, result := range report.Results {
		msg.AddLine(fmt.Sprintf("%s %s %s %s accuracy=%.4f f1_macro=%.4f",
			emoji.MapTrained(result.Trained),
			emoji.MapScores(result.Scores["accuracy"], result.Scores["f1_macro"]),
			result.ExperimentID, result.ExperimentName, result.Scores["accuracy"], result.Scores["f1_macro"]))
	}
	return msg
}
