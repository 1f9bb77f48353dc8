package store

import (
	"strings"
	"sync"
	"time"

	"staff-bot/internal/models"
)

type medicalData struct {
	Employees []models.MedicalRecord `json:"employees"`
}

// Medical tracks staff medical-document records and expiry dates.
type Medical struct {
	path string

	mu   sync.Mutex
	data medicalData
}

func OpenMedical(path string) (*Medical, error) {
	m := &Medical{path: path}
	if err := loadJSON(path, &m.data); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns a copy of all records.
func (m *Medical) List() []models.MedicalRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MedicalRecord, len(m.data.Employees))
	copy(out, m.data.Employees)
	return out
}

// Upsert inserts or replaces the record for rec.Name and persists.
func (m *Medical) Upsert(rec models.MedicalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.data.Employees {
		if strings.EqualFold(e.Name, rec.Name) {
			m.data.Employees[i] = rec
			return saveJSON(m.path, &m.data)
		}
	}
	m.data.Employees = append(m.data.Employees, rec)
	return saveJSON(m.path, &m.data)
}

// Remove deletes the record for name and persists.
func (m *Medical) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.data.Employees {
		if strings.EqualFold(e.Name, name) {
			m.data.Employees = append(m.data.Employees[:i], m.data.Employees[i+1:]...)
			return saveJSON(m.path, &m.data)
		}
	}
	return nil
}

// ExpiringWithin returns alerts for documents that expire within the
// given number of days from now. Records marked missing_docs are
// skipped; they have nothing to expire.
func (m *Medical) ExpiringWithin(days int, now time.Time) []models.MedicalAlert {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold := time.Duration(days) * 24 * time.Hour
	var alerts []models.MedicalAlert
	for _, e := range m.data.Employees {
		if e.Status == "missing_docs" {
			continue
		}
		for _, doc := range []struct{ kind, date string }{
			{"Мед. комиссия", e.MedCommissionDate},
			{"Сан. минимум", e.SanMinDate},
		} {
			if doc.date == "" {
				continue
			}
			d, err := time.ParseInLocation(models.FullDateLayout, doc.date, now.Location())
			if err != nil {
				continue
			}
			left := d.Sub(now)
			if left >= 0 && left <= threshold {
				alerts = append(alerts, models.MedicalAlert{
					Name:     e.Name,
					DocType:  doc.kind,
					Date:     doc.date,
					DaysLeft: int(left.Hours() / 24),
				})
			}
		}
	}
	return alerts
}
