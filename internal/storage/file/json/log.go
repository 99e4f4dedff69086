package json

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"reflect"
	"sync"

	"github.com/drakos74/multilang-experiments/internal/storage"
)

const (
	filename = "%s.events.log"
)

type Logger struct {
	path  string
	mutex *sync.Mutex
}

func NewLogger(folder string) *Logger {
	return &Logger{
		path:  folder,
		mutex: new(sync.Mutex),
	}
}

func (l *Logger) filePath(k storage.K) string {
	return path.Join(l.path, k.Group)
}

func (l *Logger) fileName(k storage.K) string {
	return path.Join(l.filePath(k), fmt.Sprintf(filename, k.Label))
}

// Append writes the value as a single json line.
func (l *Logger) Append(k storage.K, value interface{}) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	filePath := l.filePath(k)

	// check if filepath exists
	info, err := os.Stat(filePath)
	if err != nil {
		err := os.MkdirAll(filePath, os.ModePerm)
		if err != nil {
			return fmt.Errorf("could not make dir: %s: %w", filePath, err)
		}
	} else if !info.IsDir() {
		return fmt.Errorf("path given is not a directory: %s", filePath)
	}

	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not encode value '%+v': %w", value, err)
	}
	f, err := os.OpenFile(l.fileName(k), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}

	defer f.Close()

	if _, err = f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("could not write log file for  '%+v': %w", k, err)
	}
	return nil
}

// Lines reads back every line of the log for the given key.
func (l *Logger) Lines(k storage.K) ([][]byte, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	f, err := os.Open(l.fileName(k))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open log file '%+v': %w", k, err)
	}
	defer f.Close()

	lines := make([][]byte, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lines = append(lines, append([]byte{}, line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read log file '%+v': %w", k, err)
	}
	return lines, nil
}

// Registry is a json-lines event registry rooted at a directory.
type Registry struct {
	logger *Logger
	root   string
}

func NewEventRegistry(root string) *Registry {
	return &Registry{
		logger: NewLogger(root),
		root:   root,
	}
}

func (e *Registry) Root() string {
	return e.root
}

func (e *Registry) Add(key storage.K, value interface{}) error {
	return e.logger.Append(key, value)
}

// GetAll decodes every event of the key into the given slice pointer.
func (e *Registry) GetAll(key storage.K, values interface{}) error {

	vv := reflect.Indirect(reflect.ValueOf(values))
	if vv.Kind() != reflect.Slice {
		return fmt.Errorf("only accepting slices as placeholder for the results")
	}
	t := vv.Type().Elem()

	lines, err := e.logger.Lines(key)
	if err != nil {
		return fmt.Errorf("could not get events: %w", err)
	}

	elemSlice := reflect.MakeSlice(vv.Type(), 0, len(lines))
	for _, line := range lines {
		instance := reflect.New(t)
		if err := json.Unmarshal(line, instance.Interface()); err != nil {
			return fmt.Errorf("could not decode event value '%s': %w", string(line), storage.CouldNotLoadErr)
		}
		elemSlice = reflect.Append(elemSlice, instance.Elem())
	}
	vv.Set(elemSlice)

	return nil
}
