package store

import "sync"

// Ratings keeps the photo-board state: per board name, an ordered list
// of Telegram photo file ids.
type Ratings struct {
	path string

	mu     sync.Mutex
	boards map[string][]string
}

func OpenRatings(path string) (*Ratings, error) {
	r := &Ratings{path: path, boards: make(map[string][]string)}
	if err := loadJSON(path, &r.boards); err != nil {
		return nil, err
	}
	return r, nil
}

// Add appends a photo to a board and persists.
func (r *Ratings) Add(board, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards[board] = append(r.boards[board], fileID)
	return saveJSON(r.path, r.boards)
}

// Replace swaps a board's photos wholesale and persists.
func (r *Ratings) Replace(board string, fileIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards[board] = fileIDs
	return saveJSON(r.path, r.boards)
}

// List returns a copy of a board's photo ids.
func (r *Ratings) List(board string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.boards[board]))
	copy(out, r.boards[board])
	return out
}
