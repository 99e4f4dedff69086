package local

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"
)

const (
	classPrefix = "c"
	trainFile   = "knn_train.csv"
	predictFile = "knn_predict.csv"
)

// Knn is a nearest neighbour estimator.
// Each prediction puts all the probability mass on the voted class.
type Knn struct {
	neighbours int
	classes    int
	workspace  string
	cls        *knn.KNNClassifier
	template   *base.DenseInstances
}

func newKnn(neighbours int, classes int, workspace string) *Knn {
	if neighbours <= 0 {
		neighbours = 1
	}
	return &Knn{
		neighbours: neighbours,
		classes:    classes,
		workspace:  workspace,
	}
}

func (k *Knn) Fit(x [][]float64, y []int) error {
	fn, err := toFeatureFile(k.workspace, trainFile, x, y)
	if err != nil {
		return fmt.Errorf("could not create dataset file: %w", err)
	}
	instances, err := base.ParseCSVToInstances(fn, false)
	if err != nil {
		return fmt.Errorf("could not parse dataset file: %w", err)
	}
	cls := knn.NewKnnClassifier("cosine", "linear", k.neighbours)
	if err := cls.Fit(instances); err != nil {
		return fmt.Errorf("could not train knn model: %w", err)
	}
	k.cls = cls
	k.template = instances
	return nil
}

func (k *Knn) Probabilities(x [][]float64) ([][]float64, error) {
	if k.cls == nil {
		return nil, fmt.Errorf("knn is not trained")
	}
	// the class column of the prediction file is a placeholder
	fn, err := toFeatureFile(k.workspace, predictFile, x, make([]int, len(x)))
	if err != nil {
		return nil, fmt.Errorf("could not create prediction file: %w", err)
	}
	instances, err := base.ParseCSVToTemplatedInstances(fn, false, k.template)
	if err != nil {
		return nil, fmt.Errorf("could not parse prediction file: %w", err)
	}
	predictions, err := k.cls.Predict(instances)
	if err != nil {
		return nil, fmt.Errorf("could not predict on knn model: %w", err)
	}
	pp := make([][]float64, len(x))
	for i := range x {
		class, err := fromClass(base.GetClass(predictions, i))
		if err != nil {
			return nil, err
		}
		p := make([]float64, k.classes)
		if class < k.classes {
			p[class] = 1
		}
		pp[i] = p
	}
	return pp, nil
}

// toFeatureFile writes the vectors with their class as the last column.
// Classes are prefixed so that they are parsed as categorical values.
func toFeatureFile(dir string, name string, x [][]float64, y []int) (string, error) {
	fn := filepath.Join(dir, name)
	file, err := os.OpenFile(fn, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i, vector := range x {
		lw := new(strings.Builder)
		for _, v := range vector {
			lw.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
			lw.WriteString(",")
		}
		lw.WriteString(toClass(y[i]))
		if _, err := writer.WriteString(lw.String() + "\n"); err != nil {
			return "", fmt.Errorf("could not write file: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("could not write file: %w", err)
	}
	return fn, nil
}

func toClass(y int) string {
	return classPrefix + strconv.Itoa(y)
}

func fromClass(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimPrefix(s, classPrefix))
	if err != nil {
		return 0, fmt.Errorf("invalid class '%s': %w", s, err)
	}
	return y, nil
}
