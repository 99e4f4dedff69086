package model

import "sort"

// Scores holds the metric values of one evaluation keyed by metric name.
type Scores map[string]float64

// Keys returns the metric names in ascending order.
func (s Scores) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
