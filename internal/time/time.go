package time

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	// DateFormat is the date layout written in the result log.
	DateFormat = "2006-01-02 15:04:05"
	// StampFormat is the compact layout used to prefix working directories.
	StampFormat = "2006-01-0215:04:05"
)

// Stamp formats the given time for use in directory names.
func Stamp(t time.Time) string {
	return t.Format(StampFormat)
}

// Since returns the elapsed time from the given instant as a json friendly duration.
func Since(t time.Time) Duration {
	return Duration{Duration: time.Since(t)}
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}
