package local

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// tokenize splits the text into lower-cased words.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// vectorize hashes the tokens of the text into a unit length vector of the given size.
func vectorize(text string, dims int) []float64 {
	v := make([]float64, dims)
	h := fnv.New32a()
	for _, token := range tokenize(text) {
		h.Reset()
		_, _ = h.Write([]byte(token))
		v[h.Sum32()%uint32(dims)]++
	}
	if norm := floats.Norm(v, 2); norm > 0 {
		floats.Scale(1/norm, v)
	}
	return v
}

// featurize vectorizes the examples in parallel chunks, one per worker.
func featurize(ctx context.Context, examples []Example, dims int, workers int) ([][]float64, error) {
	if workers < 1 {
		workers = 1
	}
	x := make([][]float64, len(examples))
	chunk := (len(examples) + workers - 1) / workers
	if chunk == 0 {
		return x, nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(examples); start += chunk {
		from := start
		to := start + chunk
		if to > len(examples) {
			to = len(examples)
		}
		g.Go(func() error {
			for i := from; i < to; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				x[i] = vectorize(examples[i].Text, dims)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return x, nil
}
