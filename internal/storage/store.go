package storage

import (
	"errors"
	"fmt"
)

const (
	// RegistryPath is the default file group of the result registry.
	RegistryPath = "events"
	// ResultLabel is the registry label for experiment results.
	ResultLabel = "results"
)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
)

// Key is the storage key of one prediction set.
type Key struct {
	Experiment string `json:"experiment"`
	Index      int    `json:"index"`
	Run        string `json:"run"`
	Label      string `json:"label"`
}

// K is a simplified key for the registry
type K struct {
	Group string `json:"group"`
	Label string `json:"label"`
}

// Path returns the file name for the key, without extension.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%d_%s_%s", k.Experiment, k.Index, k.Run, k.Label)
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// Registry is an append-only event log.
type Registry interface {
	Root() string
	Add(key K, value interface{}) error
	GetAll(key K, values interface{}) error
}

// Log appends flat rows to a tabular log.
type Log interface {
	Append(row map[string]string) error
}
