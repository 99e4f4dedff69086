package record

import (
	"math"
	"sort"

	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// sumTolerance is how far a probability vector may drift from 1 before it is reported.
const sumTolerance = 1e-3

// Input holds the raw prediction output of one dataset phase.
type Input struct {
	ExperimentID  string
	ExampleIDs    []string
	Probabilities [][]float64
	TrueLabels    []int
	Labels        model.LabelMapping
	State         [][]float64
	Tag           model.Tag
}

// Build ranks the probability vectors of every example and collects them
// into a prediction set keyed by example id.
func Build(in Input) (*model.Predictions, error) {
	n := len(in.ExampleIDs)
	if len(in.Probabilities) != n || len(in.TrueLabels) != n {
		return nil, model.Errorf(model.ErrInvalidInput,
			"example ids (%d), probabilities (%d) and y_true (%d) differ in length",
			n, len(in.Probabilities), len(in.TrueLabels))
	}
	if in.State != nil && len(in.State) != n {
		return nil, model.Errorf(model.ErrInvalidInput,
			"state has %d entries for %d examples", len(in.State), n)
	}

	classes := 0
	if n > 0 {
		classes = len(in.Probabilities[0])
	}
	if n > 0 && classes == 0 {
		return nil, model.Errorf(model.ErrInvalidInput, "empty probability vector for '%s'", in.ExampleIDs[0])
	}
	if in.Labels != nil {
		for c := 0; c < classes; c++ {
			if _, ok := in.Labels[c]; !ok {
				return nil, model.Errorf(model.ErrInvalidInput, "label mapping has no name for class %d", c)
			}
		}
	}

	predictions := model.NewPredictions(in.ExperimentID, in.Tag)
	for i, id := range in.ExampleIDs {
		probs := in.Probabilities[i]
		if len(probs) != classes {
			return nil, model.Errorf(model.ErrInvalidInput,
				"probability vector for '%s' has %d classes instead of %d", id, len(probs), classes)
		}
		if err := Validate(probs); err != nil {
			return nil, model.Wrap(model.ErrInvalidInput, err, "invalid probabilities for '%s'", id)
		}
		if s := floats.Sum(probs); math.Abs(s-1) > sumTolerance {
			log.Debug().
				Str("experiment", in.ExperimentID).
				Str("example", id).
				Float64("sum", s).
				Msg("probabilities do not sum to 1")
		}
		yTrue := in.TrueLabels[i]
		if yTrue < 0 || yTrue >= classes {
			return nil, model.Errorf(model.ErrInvalidInput, "y_true %d for '%s' is outside %d classes", yTrue, id, classes)
		}

		record := rank(id, probs, in.Labels)
		record.TrueLabel = in.Labels.Name(yTrue)
		if in.State != nil {
			record.State = in.State[i]
		}
		predictions.Add(record)
	}
	return predictions, nil
}

// Validate checks that every probability is a finite non-negative number.
func Validate(probs []float64) error {
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return model.Errorf(model.ErrInvalidInput, "probability %d is %v", i, p)
		}
	}
	return nil
}

// rank orders the classes by descending probability.
// Ties keep the ascending class order.
func rank(id string, probs []float64, labels model.LabelMapping) model.PredictionRecord {
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return probs[order[i]] > probs[order[j]]
	})

	record := model.PredictionRecord{
		ExampleID:     id,
		Classes:       order,
		Labels:        make([]string, len(order)),
		Probabilities: make([]float64, len(order)),
	}
	for i, c := range order {
		record.Labels[i] = labels.Name(c)
		record.Probabilities[i] = probs[c]
	}
	record.Prediction = record.Labels[0]
	record.Probability = record.Probabilities[0]
	return record
}
