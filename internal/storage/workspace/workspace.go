package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	cointime "github.com/drakos74/multilang-experiments/internal/time"
)

// Workspace is an isolated working directory owned by a single training step.
type Workspace struct {
	RunID string
	Path  string
}

// Pool allocates workspaces under a root directory and keeps track of them for cleanup.
type Pool struct {
	root   string
	dirs   []string
	mutex  *sync.Mutex
	now    func() time.Time
	nextID func() string
}

// NewPool creates a new workspace pool
func NewPool(root string) *Pool {
	return &Pool{
		root:   root,
		dirs:   make([]string, 0),
		mutex:  new(sync.Mutex),
		now:    time.Now,
		nextID: newRunID,
	}
}

func newRunID() string {
	return uuid.New().String()
}

// Allocate creates a fresh workspace named '<timestamp>-<user>-<run id>'.
func (p *Pool) Allocate(user string) (Workspace, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	runID := p.nextID()
	name := fmt.Sprintf("%s-%s-%s", cointime.Stamp(p.now()), filepath.Base(user), runID)
	dir := filepath.Join(p.root, name)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return Workspace{}, fmt.Errorf("could not create workspace '%s': %w", dir, err)
	}
	p.dirs = append(p.dirs, dir)
	log.Debug().Str("workspace", dir).Msg("allocated")
	return Workspace{
		RunID: runID,
		Path:  dir,
	}, nil
}

// Allocated returns the workspaces not yet released.
func (p *Pool) Allocated() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	dirs := make([]string, len(p.dirs))
	copy(dirs, p.dirs)
	return dirs
}

// ReleaseAll removes every allocated workspace.
// Calling it again only retries the ones that could not be removed.
func (p *Pool) ReleaseAll() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	failed := make([]string, 0)
	errs := make([]string, 0)
	for _, dir := range p.dirs {
		if err := os.RemoveAll(dir); err != nil {
			failed = append(failed, dir)
			errs = append(errs, err.Error())
			continue
		}
		log.Debug().Str("workspace", dir).Msg("released")
	}
	p.dirs = failed
	if len(errs) > 0 {
		return fmt.Errorf("could not release %d workspaces: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
