package math

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// epsilon bounds probabilities away from zero when taking logarithms.
const epsilon = 1e-15

// Format formats a float based on the given precision
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Normalize scales the given non-negative vector in place so that it sums up to 1.
// A zero vector is turned into the uniform distribution.
func Normalize(ff []float64) []float64 {
	if len(ff) == 0 {
		return ff
	}
	sum := floats.Sum(ff)
	if sum <= 0 {
		for i := range ff {
			ff[i] = 1 / float64(len(ff))
		}
		return ff
	}
	floats.Scale(1/sum, ff)
	return ff
}

// CrossEntropy returns the negative log likelihood of the true class under the given distribution.
func CrossEntropy(probabilities []float64, class int) float64 {
	if class < 0 || class >= len(probabilities) {
		return -math.Log(epsilon)
	}
	p := math.Max(probabilities[class], epsilon)
	return -math.Log(p)
}

// MeanCrossEntropy averages the cross entropy over a batch of predictions.
func MeanCrossEntropy(probabilities [][]float64, classes []int) float64 {
	if len(probabilities) == 0 {
		return 0
	}
	loss := 0.0
	for i, p := range probabilities {
		loss += CrossEntropy(p, classes[i])
	}
	return loss / float64(len(probabilities))
}

// ToFloat converts the given ints to floats.
func ToFloat(ii []int) []float64 {
	ff := make([]float64, len(ii))
	for f, i := range ii {
		ff[f] = float64(i)
	}
	return ff
}
