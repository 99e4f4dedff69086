package local

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/drakos74/multilang-experiments/internal/api"
)

// User writes the notifications to a local file and keeps them in memory.
type User struct {
	logger   *zerolog.Logger
	file     *os.File
	Messages []api.Message
	lock     *sync.RWMutex
}

// NewUser creates a new local user writing to the given file.
// With an empty file name the messages are only kept in memory.
func NewUser(l string) (*User, error) {
	user := &User{
		Messages: make([]api.Message, 0),
		lock:     new(sync.RWMutex),
	}
	if l != "" {
		if err := os.MkdirAll(filepath.Dir(l), os.ModePerm); err != nil {
			return nil, fmt.Errorf("could not make dir for '%s': %w", l, err)
		}
		f, err := os.OpenFile(l, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, fmt.Errorf("could not open notification file '%s': %w", l, err)
		}
		logger := zerolog.New(f)
		user.logger = &logger
		user.file = f
	}
	return user, nil
}

// Send records the message.
func (v *User) Send(message *api.Message) error {
	v.lock.Lock()
	defer v.lock.Unlock()
	if v.logger != nil {
		v.logger.Info().
			Time("time", message.Time).
			Int("reply", message.Reply).
			Msg(message.Text)
	}
	v.Messages = append(v.Messages, *message)
	return nil
}

// Close closes the notification file.
func (v *User) Close() error {
	if v.file != nil {
		return v.file.Close()
	}
	return nil
}
