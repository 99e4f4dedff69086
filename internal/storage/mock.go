package storage

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// MockStorage keeps the stored values in memory.
type MockStorage struct {
	Elements map[Key]interface{}
	Err      error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key]interface{})}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	if m.Err != nil {
		return m.Err
	}
	m.Elements[k] = value
	return nil
}

func (m *MockStorage) Load(k Key, value interface{}) error {
	v, ok := m.Elements[k]
	if !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode '%v': %w", k, CouldNotLoadErr)
	}
	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not decode '%v': %w", k, CouldNotLoadErr)
	}
	return nil
}

type MockRegistry struct {
	Events map[K][]interface{}
	mutex  *sync.Mutex
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Events: make(map[K][]interface{}),
		mutex:  new(sync.Mutex),
	}
}

func (m *MockRegistry) Root() string {
	return ""
}

func (m *MockRegistry) Add(key K, value interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.Events[key]; !ok {
		m.Events[key] = make([]interface{}, 0)
	}
	m.Events[key] = append(m.Events[key], value)
	return nil
}

// GetAll copies the events of the key into the given slice pointer.
func (m *MockRegistry) GetAll(key K, values interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	vv := reflect.Indirect(reflect.ValueOf(values))
	if vv.Kind() != reflect.Slice {
		return fmt.Errorf("only accepting slices as placeholder for the results")
	}
	elems := reflect.MakeSlice(vv.Type(), 0, len(m.Events[key]))
	for _, ev := range m.Events[key] {
		elems = reflect.Append(elems, reflect.ValueOf(ev))
	}
	vv.Set(elems)
	return nil
}

// MockLog keeps the appended rows in memory.
type MockLog struct {
	Rows  []map[string]string
	Err   error
	mutex *sync.Mutex
}

func NewMockLog() *MockLog {
	return &MockLog{
		Rows:  make([]map[string]string, 0),
		mutex: new(sync.Mutex),
	}
}

func (m *MockLog) Append(row map[string]string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Rows = append(m.Rows, row)
	return nil
}
