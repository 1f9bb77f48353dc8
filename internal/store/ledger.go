package store

import "sync"

// Ledger records the last date (DD.MM) each user was reminded about.
// It is the sole de-duplication mechanism for shift reminders: keyed
// by date string, not shift identity, so a user with two shifts on one
// calendar date gets at most one reminder.
type Ledger struct {
	path string

	mu      sync.Mutex
	entries map[string]string // user id -> DD.MM
}

func OpenLedger(path string) (*Ledger, error) {
	l := &Ledger{path: path, entries: make(map[string]string)}
	if err := loadJSON(path, &l.entries); err != nil {
		return nil, err
	}
	return l, nil
}

// LastNotified returns the DD.MM date of the user's last reminder.
func (l *Ledger) LastNotified(userID string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[userID]
}

// MarkNotified records a sent reminder and persists immediately, so a
// crash mid-run never loses ledger consistency for already-sent ones.
func (l *Ledger) MarkNotified(userID, date string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[userID] = date
	return saveJSON(l.path, l.entries)
}
