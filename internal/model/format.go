package model

import (
	"strconv"
	"time"

	cointime "github.com/drakos74/multilang-experiments/internal/time"
)

// Result is the summary of one completed experiment evaluation.
type Result struct {
	Index           int                `json:"index"`
	ExperimentID    string             `json:"experiment_id"`
	ExperimentName  string             `json:"experiment_name"`
	RunID           string             `json:"run_id"`
	Date            time.Time          `json:"date"`
	User            string             `json:"user"`
	Model           string             `json:"model"`
	TrainSteps      int                `json:"train_steps"`
	TrainDataset    string             `json:"train_dataset"`
	EvalDataset     string             `json:"eval_dataset"`
	Trained         bool               `json:"trained"`
	Hyperparameters map[string]float64 `json:"hyperparameters"`
	Loss            float64            `json:"loss"`
	EvalLoss        float64            `json:"eval_loss"`
	Comment         string             `json:"comment"`
	Scores          Scores             `json:"scores"`
}

// Row flattens the result into the columns of the csv log.
func (r Result) Row() map[string]string {
	row := map[string]string{
		"experiment_id":   r.ExperimentID,
		"experiment_name": r.ExperimentName,
		"run_id":          r.RunID,
		"date":            r.Date.Format(cointime.DateFormat),
		"user":            r.User,
		"model":           r.Model,
		"train_steps":     strconv.Itoa(r.TrainSteps),
		"train_dataset":   r.TrainDataset,
		"eval_dataset":    r.EvalDataset,
		"loss":            formatFloat(r.Loss),
		"eval_loss":       formatFloat(r.EvalLoss),
		"comment":         r.Comment,
	}
	for k, v := range r.Hyperparameters {
		row[k] = formatFloat(v)
	}
	for k, v := range r.Scores {
		row[k] = formatFloat(v)
	}
	return row
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
