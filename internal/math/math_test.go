package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {

	type test struct {
		input  float64
		output string
	}

	tests := map[string]test{
		"0": {
			input:  0,
			output: "0.00",
		},
		"-1": {
			input:  -1,
			output: "-1.00",
		},
		"5": {
			input:  1.5555,
			output: "1.56",
		},
		"4": {
			input:  1.4444,
			output: "1.44",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.output, Format(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {

	type test struct {
		input  []float64
		output []float64
	}

	tests := map[string]test{
		"scale": {
			input:  []float64{1, 1, 2},
			output: []float64{0.25, 0.25, 0.5},
		},
		"zero": {
			input:  []float64{0, 0},
			output: []float64{0.5, 0.5},
		},
		"empty": {
			input:  []float64{},
			output: []float64{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.output, Normalize(tt.input))
		})
	}
}

func TestCrossEntropy(t *testing.T) {
	assert.InDelta(t, 0, CrossEntropy([]float64{1, 0}, 0), 1e-12)
	assert.InDelta(t, math.Log(2), CrossEntropy([]float64{0.5, 0.5}, 1), 1e-12)
	// zero probability and unknown classes are bounded
	assert.InDelta(t, -math.Log(epsilon), CrossEntropy([]float64{1, 0}, 1), 1e-9)
	assert.InDelta(t, -math.Log(epsilon), CrossEntropy([]float64{1, 0}, 5), 1e-9)

	loss := MeanCrossEntropy([][]float64{{1, 0}, {0.5, 0.5}}, []int{0, 1})
	assert.InDelta(t, math.Log(2)/2, loss, 1e-12)
	assert.Equal(t, 0.0, MeanCrossEntropy(nil, nil))
}
