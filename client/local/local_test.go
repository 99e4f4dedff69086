package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drakos74/multilang-experiments/client"
	"github.com/drakos74/multilang-experiments/internal/model"
	"github.com/drakos74/multilang-experiments/internal/storage/file/json"
)

var labels = []string{"positive", "neutral", "negative"}

var texts = map[string][]string{
	"positive": {"great vaccine works well", "happy and safe after the vaccine", "great news vaccine approved"},
	"neutral":  {"the clinic opens at nine", "appointments listed on the website", "the clinic is on main street"},
	"negative": {"terrible side effects and fear", "fear of the terrible needle", "side effects made me sick"},
}

func writeDataset(t *testing.T, root, name string) string {
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, os.ModePerm))
	for _, split := range []client.Split{client.TrainSplit, client.DevSplit, client.TestSplit} {
		lines := make([]string, 0)
		if split == client.TestSplit {
			lines = append(lines, "id\tlabel\tlang\ttext")
		}
		i := 0
		for _, l := range labels {
			for _, text := range texts[l] {
				lines = append(lines, fmt.Sprintf("%d\t%s\ten\t%s", i, l, text))
				i++
			}
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(split)+extension), []byte(strings.Join(lines, "\n")+"\n"), 0600))
	}
	return dir
}

func TestReadSplit(t *testing.T) {
	dir := writeDataset(t, t.TempDir(), "cb-annot-en")

	examples, err := ReadSplit(dir, client.TrainSplit, labels)
	require.NoError(t, err)
	assert.Len(t, examples, 9)
	assert.Equal(t, "train-0", examples[0].ID)
	assert.Equal(t, 0, examples[0].Label)
	assert.Equal(t, 2, examples[8].Label)
	assert.Equal(t, "side effects made me sick", examples[8].Text)

	examples, err = ReadSplit(dir, client.TestSplit, labels)
	require.NoError(t, err)
	assert.Len(t, examples, 9)
	assert.Equal(t, "test-1", examples[0].ID)

	_, err = ReadSplit(dir, client.TrainSplit, []string{"positive"})
	assert.Error(t, err)

	_, err = ReadSplit(filepath.Join(dir, "missing"), client.TrainSplit, labels)
	assert.Error(t, err)
}

func TestVectorize(t *testing.T) {
	v := vectorize("Great, great VACCINE!", 16)
	assert.Len(t, v, 16)
	norm := 0.0
	for _, f := range v {
		norm += f * f
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	assert.Equal(t, v, vectorize("great great vaccine", 16))
	assert.Equal(t, make([]float64, 4), vectorize("...", 4))
	assert.Equal(t, []string{"great", "vaccine", "2021"}, tokenize("Great vaccine; 2021"))
}

func TestFeaturize(t *testing.T) {
	examples := make([]Example, 0)
	for i := 0; i < 25; i++ {
		examples = append(examples, Example{Text: fmt.Sprintf("text number %d", i)})
	}
	for _, workers := range []int{0, 1, 4, 100} {
		x, err := featurize(context.Background(), examples, 8, workers)
		require.NoError(t, err)
		require.Len(t, x, len(examples))
		for i, e := range examples {
			assert.Equal(t, vectorize(e.Text, 8), x[i])
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := featurize(ctx, examples, 8, 2)
	assert.Error(t, err)
}

func TestClassifier(t *testing.T) {

	type test struct {
		backend string
	}

	tests := map[string]test{
		"forest": {backend: ForestBackend},
		"knn":    {backend: KnnBackend},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			dir := writeDataset(t, root, "cb-annot-en")
			workspace := filepath.Join(root, "workspace")
			require.NoError(t, os.MkdirAll(workspace, os.ModePerm))

			cls, err := NewClassifier(Config{
				Backend:      tt.backend,
				Features:     32,
				Steps:        10,
				Neighbours:   1,
				Labels:       labels,
				CaptureState: true,
				Workers:      2,
				Seed:         1,
			})
			require.NoError(t, err)

			h, err := cls.Train(context.Background(), client.TrainRequest{
				Dataset:   "cb-annot-en",
				DataDir:   dir,
				Workspace: workspace,
				Steps:     5,
			})
			require.NoError(t, err)
			assert.Equal(t, "cb-annot-en", h.Dataset())
			assert.Equal(t, model.NewLabelMapping(labels...), h.Labels())
			assert.Equal(t, workspace, h.Workspace())

			var artifact Artifact
			require.NoError(t, json.Load(workspace, modelFile, &artifact))
			assert.Equal(t, 9, artifact.Examples)
			assert.Equal(t, 5, artifact.Steps)
			assert.Equal(t, tt.backend, artifact.Backend)

			predictions, err := cls.Predict(context.Background(), h, dir, client.DevSplit)
			require.NoError(t, err)
			require.Len(t, predictions, 9)
			for _, p := range predictions {
				assert.Len(t, p.Probabilities, len(labels))
				sum := 0.0
				for _, f := range p.Probabilities {
					assert.GreaterOrEqual(t, f, 0.0)
					sum += f
				}
				assert.InDelta(t, 1.0, sum, 1e-9)
				assert.Len(t, p.State, 32)
			}

			evaluation, err := cls.Evaluate(context.Background(), h, dir)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, evaluation.Loss, 0.0)
			assert.GreaterOrEqual(t, evaluation.EvalLoss, 0.0)
			assert.Equal(t, 9.0, evaluation.Extra["eval_examples"])

			require.NoError(t, cls.Release(h))
			_, err = cls.Predict(context.Background(), h, dir, client.DevSplit)
			assert.True(t, errors.Is(err, model.ErrExternalCapability))
		})
	}
}

func TestClassifier_MissingDataset(t *testing.T) {
	cls, err := NewClassifier(Config{
		Backend:  ForestBackend,
		Features: 8,
		Labels:   labels,
	})
	require.NoError(t, err)
	_, err = cls.Train(context.Background(), client.TrainRequest{
		Dataset:   "none",
		DataDir:   filepath.Join(t.TempDir(), "none"),
		Workspace: t.TempDir(),
	})
	assert.True(t, errors.Is(err, model.ErrExternalCapability))

	_, err = NewClassifier(Config{Features: 8})
	assert.Error(t, err)
}

func TestMockClassifier(t *testing.T) {
	mock := NewMockClassifier(6).FailTraining("bad")

	h, err := mock.Train(context.Background(), client.TrainRequest{Dataset: "good"})
	require.NoError(t, err)
	predictions, err := mock.Predict(context.Background(), h, "/data/good", client.DevSplit)
	require.NoError(t, err)
	assert.Len(t, predictions, 6)
	assert.Equal(t, "dev-0", predictions[0].ExampleID)

	_, err = mock.Train(context.Background(), client.TrainRequest{Dataset: "bad"})
	assert.True(t, errors.Is(err, model.ErrExternalCapability))
	assert.Equal(t, []string{"good", "bad"}, mock.TrainCalls)

	require.NoError(t, mock.Release(h))
	assert.Equal(t, []string{"good"}, mock.ReleaseCalls)
}
