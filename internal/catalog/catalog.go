package catalog

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/drakos74/multilang-experiments/internal/model"
)

const (
	trainEN      = "cb-annot-en"
	trainMulti   = "cb-annot-en-de-fr-es"
	zeroshot     = "zeroshot"
	translated   = "translated"
	multiLingual = "multitranslate"
)

// evalSets are the evaluation datasets of the built-in table, in id order.
var evalSets = []string{
	"cb-annot-en",
	"cb-annot-en-de",
	"cb-annot-en-es",
	"cb-annot-en-fr",
	"cb-annot-en-pt",
}

// Catalog is the read-only table of experiment definitions.
type Catalog struct {
	experiments map[string]model.Experiment
	ids         []string
}

// New creates a catalog from the given definitions.
func New(defs ...model.Experiment) (*Catalog, error) {
	c := &Catalog{
		experiments: make(map[string]model.Experiment, len(defs)),
		ids:         make([]string, 0, len(defs)),
	}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		if _, ok := c.experiments[def.ID]; ok {
			return nil, fmt.Errorf("duplicate experiment id '%s'", def.ID)
		}
		if def.Name == "" {
			def.Name = def.ID
		}
		c.experiments[def.ID] = def
		c.ids = append(c.ids, def.ID)
	}
	sort.Slice(c.ids, func(i, j int) bool {
		return less(c.ids[i], c.ids[j])
	})
	return c, nil
}

// Default returns the built-in experiment table.
func Default() *Catalog {
	defs := make([]model.Experiment, 0, 3*len(evalSets))
	id := 1
	for _, ds := range evalSets {
		defs = append(defs, model.Experiment{
			ID:           strconv.Itoa(id),
			Name:         fmt.Sprintf("%s-%s", zeroshot, ds),
			TrainDataset: trainEN,
			EvalDataset:  ds,
		})
		id++
	}
	for _, ds := range evalSets {
		defs = append(defs, model.Experiment{
			ID:           strconv.Itoa(id),
			Name:         fmt.Sprintf("%s-%s", translated, ds),
			TrainDataset: ds,
			EvalDataset:  ds,
		})
		id++
	}
	for _, ds := range evalSets {
		defs = append(defs, model.Experiment{
			ID:           strconv.Itoa(id),
			Name:         fmt.Sprintf("%s-%s", multiLingual, ds),
			TrainDataset: trainMulti,
			EvalDataset:  ds,
		})
		id++
	}
	c, err := New(defs...)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in catalog: %v", err))
	}
	return c
}

// Get returns the experiment for the given id.
func (c *Catalog) Get(id string) (model.Experiment, bool) {
	e, ok := c.experiments[id]
	return e, ok
}

// IDs returns all experiment ids, numeric ids first in numeric order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Len returns the number of experiments.
func (c *Catalog) Len() int {
	return len(c.ids)
}

func less(a, b string) bool {
	i, errA := strconv.Atoi(a)
	j, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return i < j
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
