package local

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/drakos74/multilang-experiments/client"
)

const (
	extension   = ".tsv"
	labelColumn = 1
	textColumn  = 3
	headerLabel = "label"
)

// Example is a single labeled text of a dataset split.
type Example struct {
	ID    string
	Label int
	Text  string
}

// ReadSplit reads the examples of the given split from the dataset directory.
// Lines are tab separated with the label in the second and the text in the fourth column.
// The test split carries no labels; its examples get the first class.
func ReadSplit(dataDir string, split client.Split, labels []string) ([]Example, error) {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	fileName := filepath.Join(dataDir, string(split)+extension)
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open split '%s': %w", fileName, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	examples := make([]Example, 0)
	for i := 0; ; i++ {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read line %d of '%s': %w", i, fileName, err)
		}
		if i == 0 && (split == client.TestSplit || (len(line) > labelColumn && line[labelColumn] == headerLabel)) {
			continue
		}
		if len(line) <= textColumn {
			return nil, fmt.Errorf("line %d of '%s' has %d columns", i, fileName, len(line))
		}
		example := Example{
			ID:   fmt.Sprintf("%s-%d", split, i),
			Text: line[textColumn],
		}
		if split != client.TestSplit {
			label, ok := index[line[labelColumn]]
			if !ok {
				return nil, fmt.Errorf("unknown label '%s' at line %d of '%s'", line[labelColumn], i, fileName)
			}
			example.Label = label
		}
		examples = append(examples, example)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("no examples in '%s'", fileName)
	}
	return examples, nil
}
