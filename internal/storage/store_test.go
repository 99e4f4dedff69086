package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

func TestKey_Path(t *testing.T) {
	k := Key{Experiment: "3", Index: 2, Run: "run", Label: "dev"}
	assert.Equal(t, "3_2_run_dev", k.Path())
}

func TestMockStorage(t *testing.T) {
	s := NewMockStorage()
	k := Key{Experiment: "1", Index: 1, Run: "r", Label: "train"}

	var e event
	err := s.Load(k, &e)
	assert.True(t, errors.Is(err, NotFoundErr))

	require.NoError(t, s.Store(k, event{ID: "a", Score: 0.5}))
	require.NoError(t, s.Load(k, &e))
	assert.Equal(t, event{ID: "a", Score: 0.5}, e)

	s.Err = fmt.Errorf("disk full")
	assert.Error(t, s.Store(k, e))
}

func TestMockRegistry(t *testing.T) {
	r := NewMockRegistry()
	k := K{Group: RegistryPath, Label: ResultLabel}

	require.NoError(t, r.Add(k, event{ID: "a"}))
	require.NoError(t, r.Add(k, event{ID: "b"}))

	var events []event
	require.NoError(t, r.GetAll(k, &events))
	assert.Equal(t, []event{{ID: "a"}, {ID: "b"}}, events)

	var single event
	assert.Error(t, r.GetAll(k, &single))
}

func TestVoid(t *testing.T) {
	var e event
	k := Key{Experiment: "1"}
	assert.NoError(t, NewVoidStorage().Store(k, e))
	assert.True(t, errors.Is(NewVoidStorage().Load(k, &e), NotFoundErr))
	assert.NoError(t, NewVoidRegistry().Add(K{}, e))
	assert.NoError(t, NewVoidLog().Append(map[string]string{"a": "b"}))
}
