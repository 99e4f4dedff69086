package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Log is an append-only csv file.
// The header is written once, when the file is created.
type Log struct {
	path  string
	mutex *sync.Mutex
}

// NewLog creates a csv log at the given file path.
func NewLog(path string) *Log {
	return &Log{
		path:  path,
		mutex: new(sync.Mutex),
	}
}

// Path returns the file the log writes to.
func (l *Log) Path() string {
	return l.path
}

// Append writes the row to the log.
// Rows are aligned to the existing header. Keys missing from the header are dropped.
func (l *Log) Append(row map[string]string) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), os.ModePerm); err != nil {
		return fmt.Errorf("could not make dir for '%s': %w", l.path, err)
	}

	header, err := l.header()
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if header == nil {
		header = keys(row)
		if err := w.Write(header); err != nil {
			return fmt.Errorf("could not encode header: %w", err)
		}
	} else {
		extra := make([]string, 0)
		columns := make(map[string]struct{}, len(header))
		for _, h := range header {
			columns[h] = struct{}{}
		}
		for k := range row {
			if _, ok := columns[k]; !ok {
				extra = append(extra, k)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			log.Warn().
				Str("file", l.path).
				Strs("columns", extra).
				Msg("row has columns not present in the csv header")
		}
	}

	record := make([]string, len(header))
	for i, h := range header {
		record[i] = row[h]
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("could not encode row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("could not encode row: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("could not open csv file '%s': %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("could not write to csv file '%s': %w", l.path, err)
	}
	return nil
}

// Read returns the header and all the rows of the log.
func (l *Log) Read() ([]string, [][]string, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open csv file '%s': %w", l.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("could not read csv file '%s': %w", l.path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

// header reads the first line of an existing log, or nil if there is none.
func (l *Log) header() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not open csv file '%s': %w", l.path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read csv header of '%s': %w", l.path, err)
	}
	return header, nil
}

func keys(row map[string]string) []string {
	kk := make([]string, 0, len(row))
	for k := range row {
		kk = append(kk, k)
	}
	sort.Strings(kk)
	return kk
}
