package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"staff-bot/internal/models"
)

// Messages collects group-chat messages into one JSON file per day,
// for the evening feedback digest. Old files are removed by the
// midnight reset job.
type Messages struct {
	dir string
	mu  sync.Mutex
}

func OpenMessages(dir string) *Messages {
	return &Messages{dir: dir}
}

func (m *Messages) fileFor(day time.Time) string {
	return filepath.Join(m.dir, fmt.Sprintf("messages_%s.json", day.Format("2006-01-02")))
}

// Append adds one message to today's log.
func (m *Messages) Append(msg models.CollectedMessage, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.fileFor(now)
	var msgs []models.CollectedMessage
	if err := loadJSON(path, &msgs); err != nil {
		return err
	}
	msgs = append(msgs, msg)
	return saveJSON(path, msgs)
}

// Today returns today's collected messages.
func (m *Messages) Today(now time.Time) ([]models.CollectedMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var msgs []models.CollectedMessage
	if err := loadJSON(m.fileFor(now), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Cleanup removes message logs older than today.
func (m *Messages) Cleanup(now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	today := filepath.Base(m.fileFor(now))
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list message logs: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "messages_") && strings.HasSuffix(name, ".json") && name != today {
			if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
				return fmt.Errorf("failed to remove %s: %w", name, err)
			}
		}
	}
	return nil
}
