package runner

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the results of one experiment across repeated runs.
type Summary struct {
	ExperimentID   string  `json:"experiment_id"`
	ExperimentName string  `json:"experiment_name"`
	Runs           int     `json:"runs"`
	Accuracy       float64 `json:"accuracy"`
	AccuracyStd    float64 `json:"accuracy_std"`
	F1Macro        float64 `json:"f1_macro"`
	F1MacroStd     float64 `json:"f1_macro_std"`
}

// Summarize computes the mean and standard deviation of the accuracy and macro f1 per experiment.
// Experiments are listed in the order they first appear in.
func Summarize(reports ...*Report) []Summary {
	order := make([]string, 0)
	names := make(map[string]string)
	accuracy := make(map[string][]float64)
	f1 := make(map[string][]float64)
	for _, report := range reports {
		if report == nil {
			continue
		}
		for _, result := range report.Results {
			id := result.ExperimentID
			if _, ok := names[id]; !ok {
				order = append(order, id)
				names[id] = result.ExperimentName
			}
			accuracy[id] = append(accuracy[id], result.Scores["accuracy"])
			f1[id] = append(f1[id], result.Scores["f1_macro"])
		}
	}

	summaries := make([]Summary, len(order))
	for i, id := range order {
		acc, accStd := meanStd(accuracy[id])
		f, fStd := meanStd(f1[id])
		summaries[i] = Summary{
			ExperimentID:   id,
			ExperimentName: names[id],
			Runs:           len(accuracy[id]),
			Accuracy:       acc,
			AccuracyStd:    accStd,
			F1Macro:        f,
			F1MacroStd:     fStd,
		}
	}
	return summaries
}

func meanStd(x []float64) (float64, float64) {
	mean, std := stat.MeanStdDev(x, nil)
	// a single run has no spread
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
