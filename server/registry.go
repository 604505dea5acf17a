package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vitorpq/onescriber/utils"
)

// SessionFactory builds an isolated orchestrator for a new session ID.
type SessionFactory func(id string) *utils.Orchestrator

// SessionCleanup removes whatever a session left on disk.
type SessionCleanup func(id string) error

// Registry tracks live sessions. Sessions never share state; the registry
// only maps IDs to them.
type Registry struct {
	newSession SessionFactory
	cleanup    SessionCleanup

	mu       sync.RWMutex
	sessions map[string]*utils.Orchestrator
}

// NewRegistry creates an empty registry. cleanup may be nil.
func NewRegistry(factory SessionFactory, cleanup SessionCleanup) *Registry {
	return &Registry{
		newSession: factory,
		cleanup:    cleanup,
		sessions:   make(map[string]*utils.Orchestrator),
	}
}

func (r *Registry) Create() (string, *utils.Orchestrator) {
	id := uuid.NewString()
	session := r.newSession(id)

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	return id, session
}

func (r *Registry) Get(id string) (*utils.Orchestrator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Delete forgets a session and removes its files. A session with a run in
// progress is kept and ErrBusy is returned.
func (r *Registry) Delete(id string) (bool, error) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	if session.Busy() {
		r.mu.Unlock()
		return true, utils.ErrBusy
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	if r.cleanup == nil {
		return true, nil
	}
	if err := r.cleanup(id); err != nil {
		return true, &utils.StorageError{Path: id, Err: err}
	}
	return true, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
