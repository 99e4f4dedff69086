package catalog

import (
	"errors"
	"testing"

	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 15, c.Len())
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12", "13", "14", "15"}, c.IDs())

	e, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "cb-annot-en", e.TrainDataset)
	assert.Equal(t, "cb-annot-en-de", e.EvalDataset)

	e, ok = c.Get("9")
	require.True(t, ok)
	assert.Equal(t, e.TrainDataset, e.EvalDataset)

	e, ok = c.Get("15")
	require.True(t, ok)
	assert.Equal(t, "cb-annot-en-de-fr-es", e.TrainDataset)
	assert.Equal(t, "cb-annot-en-pt", e.EvalDataset)

	_, ok = c.Get("16")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	c, err := New(
		model.Experiment{ID: "b", TrainDataset: "x", EvalDataset: "y"},
		model.Experiment{ID: "10", TrainDataset: "x", EvalDataset: "y"},
		model.Experiment{ID: "2", Name: "two", TrainDataset: "x", EvalDataset: "y"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10", "b"}, c.IDs())
	e, _ := c.Get("b")
	assert.Equal(t, "b", e.Name)

	_, err = New(
		model.Experiment{ID: "1", TrainDataset: "x", EvalDataset: "y"},
		model.Experiment{ID: "1", TrainDataset: "z", EvalDataset: "y"},
	)
	assert.Error(t, err)

	_, err = New(model.Experiment{ID: "1", TrainDataset: "x"})
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {

	type test struct {
		selector string
		ids      []string
		err      error
	}

	tests := map[string]test{
		"range-and-literal": {
			selector: "1-3,5",
			ids:      []string{"1", "2", "3", "5"},
		},
		"mixed": {
			selector: "1-5,6,8-10",
			ids:      []string{"1", "2", "3", "4", "5", "6", "8", "9", "10"},
		},
		"duplicates": {
			selector: "2, 1-2 ,2",
			ids:      []string{"2", "1", "2", "2"},
		},
		"single-range": {
			selector: "4-4",
			ids:      []string{"4"},
		},
		"descending": {
			selector: "5-3",
			err:      model.ErrInvalidSelector,
		},
		"non-integer-bound": {
			selector: "1-x",
			err:      model.ErrInvalidSelector,
		},
		"open-range": {
			selector: "3-",
			err:      model.ErrInvalidSelector,
		},
		"empty-token": {
			selector: "1,,2",
			err:      model.ErrInvalidSelector,
		},
		"empty": {
			selector: "",
			err:      model.ErrInvalidSelector,
		},
		"unknown-id": {
			selector: "1,99",
			err:      model.ErrUnknownExperiment,
		},
		"unknown-in-range": {
			selector: "14-16",
			err:      model.ErrUnknownExperiment,
		},
		"range-larger-than-catalog": {
			selector: "1-100000000000",
			err:      model.ErrUnknownExperiment,
		},
		"range-ending-at-max-int": {
			selector: "9223372036854775806-9223372036854775807",
			err:      model.ErrUnknownExperiment,
		},
	}

	c := Default()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ids, err := c.Resolve(tt.selector)
			if tt.err != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.err), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestParse(t *testing.T) {

	type test struct {
		selector string
		ids      []string
		err      error
	}

	tests := map[string]test{
		"literal-ids": {
			selector: "a,b",
			ids:      []string{"a", "b"},
		},
		"range-ending-at-max-int": {
			selector: "9223372036854775806-9223372036854775807",
			ids:      []string{"9223372036854775806", "9223372036854775807"},
		},
		"range-too-large": {
			selector: "1-100000000000",
			err:      model.ErrInvalidSelector,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ids, err := Parse(tt.selector)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ids, ids)
		})
	}
}
