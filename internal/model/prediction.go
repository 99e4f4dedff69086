package model

import "time"

// PredictionRecord is the ranked prediction output for a single example.
type PredictionRecord struct {
	ExampleID     string    `json:"example_id"`
	Classes       []int     `json:"classes"`
	Labels        []string  `json:"labels"`
	Probabilities []float64 `json:"probabilities"`
	Prediction    string    `json:"prediction"`
	Probability   float64   `json:"probability"`
	TrueLabel     string    `json:"y_true"`
	State         []float64 `json:"state,omitempty"`
}

// Predictions are all the prediction records of one experiment for one dataset phase.
// Records with the same example id are appended, never overwritten.
type Predictions struct {
	ExperimentID string                        `json:"experiment_id"`
	Dataset      Tag                           `json:"dataset"`
	CreatedAt    time.Time                     `json:"created_at"`
	Records      map[string][]PredictionRecord `json:"records"`
}

// NewPredictions creates an empty prediction set.
func NewPredictions(experimentID string, tag Tag) *Predictions {
	return &Predictions{
		ExperimentID: experimentID,
		Dataset:      tag,
		CreatedAt:    time.Now().UTC(),
		Records:      make(map[string][]PredictionRecord),
	}
}

// Add appends the record under its example id.
func (p *Predictions) Add(record PredictionRecord) {
	p.Records[record.ExampleID] = append(p.Records[record.ExampleID], record)
}

// Len returns the total number of records.
func (p *Predictions) Len() int {
	n := 0
	for _, rr := range p.Records {
		n += len(rr)
	}
	return n
}
