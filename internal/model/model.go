package model

import (
	"fmt"
	"strconv"
)

// Tag defines the dataset phase a set of predictions belongs to.
type Tag string

const (
	// Train tags predictions made over the training split right after training.
	Train Tag = "train"
	// Dev tags predictions made over the evaluation split.
	Dev Tag = "dev"
)

// Experiment is a named (train dataset, eval dataset) pair.
type Experiment struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	TrainDataset string `json:"train_dataset" yaml:"train_dataset"`
	EvalDataset  string `json:"eval_dataset" yaml:"eval_dataset"`
}

// Validate checks that all the experiment fields are set.
func (e Experiment) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("experiment without id: %+v", e)
	}
	if e.TrainDataset == "" || e.EvalDataset == "" {
		return fmt.Errorf("experiment '%s' needs both a train and an eval dataset", e.ID)
	}
	return nil
}

// ToString creates a string representation of the experiment.
func (e Experiment) ToString() string {
	return fmt.Sprintf("%s[%s|%s->%s]", e.ID, e.Name, e.TrainDataset, e.EvalDataset)
}

// LabelMapping maps class ids to class names.
type LabelMapping map[int]string

// NewLabelMapping creates a mapping from the class index to the given label names.
func NewLabelMapping(labels ...string) LabelMapping {
	m := make(LabelMapping, len(labels))
	for i, l := range labels {
		m[i] = l
	}
	return m
}

// Name returns the class name for the given id, or its decimal form if the class is not mapped.
func (m LabelMapping) Name(id int) string {
	if m != nil {
		if name, ok := m[id]; ok {
			return name
		}
	}
	return strconv.Itoa(id)
}
