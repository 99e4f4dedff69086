package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/drakos74/multilang-experiments/internal/model"
)

const (
	tokenSeparator = ","
	rangeSeparator = "-"
	// maxRange bounds the number of ids a single range may expand to.
	maxRange = 1 << 16
)

// Resolve expands the selector into the ordered experiment ids it denotes.
// Tokens are either literal ids or inclusive integer ranges 'a-b'.
// Every resolved id must exist in the catalog.
func (c *Catalog) Resolve(selector string) ([]string, error) {
	ids, err := parse(selector, func(token string, span int) error {
		if span > c.Len() {
			return model.Errorf(model.ErrUnknownExperiment,
				"range '%s' spans %d ids but the catalog has %d experiments", token, span, c.Len())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := c.experiments[id]; !ok {
			return nil, model.Errorf(model.ErrUnknownExperiment, "experiment '%s' is not in the catalog", id)
		}
	}
	return ids, nil
}

// Parse expands the selector syntax without checking ids against a catalog.
func Parse(selector string) ([]string, error) {
	return parse(selector, func(token string, span int) error {
		if span > maxRange {
			return model.Errorf(model.ErrInvalidSelector, "range '%s' spans more than %d ids", token, maxRange)
		}
		return nil
	})
}

// parse expands the selector, checking the size of every range before expanding it.
func parse(selector string, checkRange func(token string, span int) error) ([]string, error) {
	tokens := strings.Split(selector, tokenSeparator)
	ids := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, model.Errorf(model.ErrInvalidSelector, "empty token in '%s'", selector)
		}
		if !strings.Contains(token, rangeSeparator) {
			ids = append(ids, token)
			continue
		}
		bounds := strings.SplitN(token, rangeSeparator, 2)
		from, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, model.Errorf(model.ErrInvalidSelector, "invalid range start in '%s'", token)
		}
		to, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, model.Errorf(model.ErrInvalidSelector, "invalid range end in '%s'", token)
		}
		if from > to {
			return nil, model.Errorf(model.ErrInvalidSelector, "range '%s' is descending", token)
		}
		// a leading '-' leaves an empty start, so from is never negative
		span := to - from
		if span < math.MaxInt {
			span++
		}
		if err := checkRange(token, span); err != nil {
			return nil, err
		}
		for i := from; ; i++ {
			ids = append(ids, strconv.Itoa(i))
			if i == to {
				break
			}
		}
	}
	return ids, nil
}
