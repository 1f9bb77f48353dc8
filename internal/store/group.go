package store

import "sync"

type groupBinding struct {
	GroupID int64 `json:"group_id"`
}

// GroupStore holds the singleton notification-group binding: at most
// one group chat receives broadcasts per deployment.
type GroupStore struct {
	path string

	mu      sync.Mutex
	binding groupBinding
}

func OpenGroup(path string) (*GroupStore, error) {
	g := &GroupStore{path: path}
	if err := loadJSON(path, &g.binding); err != nil {
		return nil, err
	}
	return g, nil
}

// GroupID returns the bound group chat id, or 0 when none is bound.
func (g *GroupStore) GroupID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.binding.GroupID
}

// Bind replaces the bound group and persists.
func (g *GroupStore) Bind(chatID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.binding.GroupID = chatID
	return saveJSON(g.path, &g.binding)
}
