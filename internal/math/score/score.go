package score

import (
	"fmt"
	"sort"

	"github.com/drakos74/multilang-experiments/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Options selects the metrics and averaging policies to compute.
type Options struct {
	Metrics  []Metric
	Averages []Average
}

// DefaultOptions computes every metric under the micro, macro, weighted and per-class policies.
func DefaultOptions() Options {
	return Options{
		Metrics:  Metrics,
		Averages: Averages,
	}
}

// Compute scores the predicted against the true class ids with the default options.
// If labels is nil, the label space is inferred from the observed values.
func Compute(yTrue, yPred []int, labels model.LabelMapping) (model.Scores, error) {
	return ComputeWith(yTrue, yPred, labels, DefaultOptions())
}

// ComputeWith scores the predicted against the true class ids for the given options.
// A binary average is added if the label space has at most two classes.
func ComputeWith(yTrue, yPred []int, labels model.LabelMapping, opts Options) (model.Scores, error) {
	space, err := labelSpace(yTrue, yPred, labels)
	if err != nil {
		return nil, err
	}

	table := newTable(space, yTrue, yPred)

	averages := append([]Average{}, opts.Averages...)
	if len(space) <= 2 && !hasAverage(averages, Binary) {
		averages = append(averages, Binary)
	}

	scores := model.Scores{}
	for _, m := range opts.Metrics {
		if m == Accuracy {
			scores[m.String()] = table.accuracy()
			continue
		}
		fn, err := scorer(m)
		if err != nil {
			return nil, model.Errorf(model.ErrInvalidInput, "%s", err.Error())
		}
		for _, av := range averages {
			switch av {
			case Micro:
				scores[key(m, av.String())] = fn(table.pooled())
			case Macro:
				scores[key(m, av.String())] = stat.Mean(table.values(fn), nil)
			case Weighted:
				weights := table.support()
				if floats.Sum(weights) == 0 {
					scores[key(m, av.String())] = 0
				} else {
					scores[key(m, av.String())] = stat.Mean(table.values(fn), weights)
				}
			case PerClass:
				for i, c := range table.classes {
					scores[key(m, labels.Name(table.labels[i]))] = fn(c)
				}
			case Binary:
				scores[key(m, av.String())] = fn(table.classes[len(table.classes)-1])
			default:
				return nil, model.Errorf(model.ErrInvalidInput, "unknown average %s", av)
			}
		}
	}
	return scores, nil
}

func key(m Metric, suffix string) string {
	return fmt.Sprintf("%s_%s", m.String(), suffix)
}

func hasAverage(aa []Average, a Average) bool {
	for _, av := range aa {
		if av == a {
			return true
		}
	}
	return false
}

// labelSpace validates the input and resolves the sorted label space.
func labelSpace(yTrue, yPred []int, labels model.LabelMapping) ([]int, error) {
	if len(yTrue) != len(yPred) {
		return nil, model.Errorf(model.ErrInvalidInput, "y_true has %d values but y_pred has %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, model.Errorf(model.ErrInvalidInput, "no samples to score")
	}

	set := make(map[int]struct{})
	if labels != nil {
		for l := range labels {
			set[l] = struct{}{}
		}
		for i := range yTrue {
			if _, ok := labels[yTrue[i]]; !ok {
				return nil, model.Errorf(model.ErrInvalidInput, "y_true[%d] = %d is not in the label space", i, yTrue[i])
			}
			if _, ok := labels[yPred[i]]; !ok {
				return nil, model.Errorf(model.ErrInvalidInput, "y_pred[%d] = %d is not in the label space", i, yPred[i])
			}
		}
	} else {
		for i := range yTrue {
			set[yTrue[i]] = struct{}{}
			set[yPred[i]] = struct{}{}
		}
	}

	space := make([]int, 0, len(set))
	for l := range set {
		space = append(space, l)
	}
	sort.Ints(space)
	return space, nil
}

// table holds the per-class confusion counts over the label space.
type table struct {
	labels  []int
	classes []counts
	correct float64
	total   float64
}

func newTable(space []int, yTrue, yPred []int) table {
	index := make(map[int]int, len(space))
	for i, l := range space {
		index[l] = i
	}
	classes := make([]counts, len(space))
	correct := 0.0
	for i := range yTrue {
		t := index[yTrue[i]]
		p := index[yPred[i]]
		classes[t].support++
		if t == p {
			classes[t].tp++
			correct++
		} else {
			classes[p].fp++
			classes[t].fn++
		}
	}
	return table{
		labels:  space,
		classes: classes,
		correct: correct,
		total:   float64(len(yTrue)),
	}
}

func (t table) accuracy() float64 {
	return safeDivide(t.correct, t.total)
}

func (t table) pooled() counts {
	var c counts
	for _, cc := range t.classes {
		c = c.add(cc)
	}
	return c
}

func (t table) values(fn scoreFunc) []float64 {
	vv := make([]float64, len(t.classes))
	for i, c := range t.classes {
		vv[i] = fn(c)
	}
	return vv
}

func (t table) support() []float64 {
	ss := make([]float64, len(t.classes))
	for i, c := range t.classes {
		ss[i] = c.support
	}
	return ss
}
