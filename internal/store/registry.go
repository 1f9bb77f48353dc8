package store

import (
	"strconv"
	"strings"
	"sync"
)

// Registry is the user registry: Telegram user id -> registered
// surname or full name. Keys are stored as decimal strings to keep the
// JSON file shape stable across tooling.
type Registry struct {
	path string

	mu    sync.Mutex
	users map[string]string
}

func OpenRegistry(path string) (*Registry, error) {
	r := &Registry{path: path, users: make(map[string]string)}
	if err := loadJSON(path, &r.users); err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the registered name for a user id.
func (r *Registry) Get(userID int64) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.users[key(userID)]
	return name, ok
}

// Register binds a name to a user id and persists immediately. A name
// already claimed by a different user id is refused with ErrNameTaken;
// ambiguity is surfaced, never silently overwritten. Pre-existing
// duplicates in the file are left alone.
func (r *Registry) Register(userID int64, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(userID)
	for id, existing := range r.users {
		if id != k && strings.EqualFold(existing, name) {
			return ErrNameTaken
		}
	}
	r.users[k] = name
	return saveJSON(r.path, r.users)
}

// Reset removes a user's registration ("this is not me").
func (r *Registry) Reset(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, key(userID))
	return saveJSON(r.path, r.users)
}

// All returns a copy of the registry.
func (r *Registry) All() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.users))
	for id, name := range r.users {
		out[id] = name
	}
	return out
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
