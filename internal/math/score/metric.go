package score

import "fmt"

// Metric is one of the supported classification metrics.
type Metric int

const (
	Accuracy Metric = iota
	Precision
	Recall
	F1
)

// Metrics lists all supported metrics in output order.
var Metrics = []Metric{Accuracy, Precision, Recall, F1}

func (m Metric) String() string {
	switch m {
	case Accuracy:
		return "accuracy"
	case Precision:
		return "precision"
	case Recall:
		return "recall"
	case F1:
		return "f1"
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

// Average is the policy used to aggregate a per-class metric.
type Average int

const (
	Micro Average = iota
	Macro
	Weighted
	// PerClass reports one value per class instead of aggregating.
	PerClass
	// Binary reports the value for the positive (highest sorted) class.
	Binary
)

// Averages lists the default averaging policies.
var Averages = []Average{Micro, Macro, Weighted, PerClass}

func (a Average) String() string {
	switch a {
	case Micro:
		return "micro"
	case Macro:
		return "macro"
	case Weighted:
		return "weighted"
	case PerClass:
		return "none"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("average(%d)", int(a))
}

// counts are the confusion counts of one class, or of all classes pooled together.
type counts struct {
	tp      float64
	fp      float64
	fn      float64
	support float64
}

func (c counts) add(o counts) counts {
	return counts{
		tp:      c.tp + o.tp,
		fp:      c.fp + o.fp,
		fn:      c.fn + o.fn,
		support: c.support + o.support,
	}
}

type scoreFunc func(c counts) float64

// scorer returns the scoring function for the given per-class metric.
func scorer(m Metric) (scoreFunc, error) {
	switch m {
	case Precision:
		return precision, nil
	case Recall:
		return recall, nil
	case F1:
		return f1, nil
	case Accuracy:
		return nil, fmt.Errorf("%s is not a per-class metric", m)
	}
	return nil, fmt.Errorf("unknown metric %s", m)
}

func precision(c counts) float64 {
	return safeDivide(c.tp, c.tp+c.fp)
}

func recall(c counts) float64 {
	return safeDivide(c.tp, c.tp+c.fn)
}

func f1(c counts) float64 {
	return safeDivide(2*c.tp, 2*c.tp+c.fp+c.fn)
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	return numerator / denominator
}
