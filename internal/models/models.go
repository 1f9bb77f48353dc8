package models

import "time"

// Role is a schedule role section. Raw role strings from the grid are
// mapped onto this closed set by keyword containment.
type Role string

const (
	RoleManager    Role = "менеджер"
	RoleMentor     Role = "наставник"
	RoleInstructor Role = "инструктор"
	RoleUniversal  Role = "универсал"
	RolePizzamaker Role = "пиццамейкер"
	RoleCashier    Role = "кассир"
	RoleCourier    Role = "курьер"
	RoleTrainee    Role = "стажёр"
	RoleUnknown    Role = "unknown"
)

// ShiftRecord is one employee-day cell of a week grid.
type ShiftRecord struct {
	EmployeeName string  `json:"name"`
	Role         Role    `json:"role"`
	Date         string  `json:"date"`  // DD.MM
	Span         string  `json:"shift"` // raw cell, e.g. "9-17", "9-21(p)"
	Hours        float64 `json:"hours"`
}

// WeekSheet is one spreadsheet tab: one calendar week of shifts.
type WeekSheet struct {
	GID       string
	Name      string
	StartDate time.Time
	Shifts    []ShiftRecord
}

// EmployeeIdentity describes one canonical employee from static config.
type EmployeeIdentity struct {
	CanonicalName string
	Aliases       []string
	Blacklisted   bool
}

// UserRegistration binds a Telegram account to a schedule name. The
// stored string may be a bare surname (legacy) or a full name.
type UserRegistration struct {
	TelegramID int64  `json:"telegram_id"`
	Name       string `json:"name"`
}

// MedicalRecord tracks one employee's document dates, DD.MM.YYYY.
type MedicalRecord struct {
	Name              string `json:"name"`
	MedCommissionDate string `json:"med_commission_date,omitempty"`
	SanMinDate        string `json:"san_min_date,omitempty"`
	Status            string `json:"status,omitempty"` // e.g. "missing_docs"
}

// MedicalAlert is an expiring-document warning.
type MedicalAlert struct {
	Name     string
	DocType  string
	Date     string
	DaysLeft int
}

// CollectedMessage is one group-chat message captured for the daily log.
type CollectedMessage struct {
	Type      string `json:"type"` // "text" or "image"
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Text      string `json:"text,omitempty"`
	Caption   string `json:"caption,omitempty"`
	FileID    string `json:"file_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// UserState holds an in-flight conversation step for one user.
type UserState struct {
	UserID      int64
	State       string
	TempData    map[string]interface{}
	LastUpdated time.Time
}

// DateLayout is the short day.month form used throughout the schedule.
const DateLayout = "02.01"

// FullDateLayout is used in persisted medical records.
const FullDateLayout = "02.01.2006"

// ShortDate formats t as DD.MM.
func ShortDate(t time.Time) string {
	return t.Format(DateLayout)
}

// InferYear resolves a DD.MM date against a reference time. Near the
// year boundary a Nov/Dec date seen in Jan/Feb belongs to the previous
// year, and a Jan/Feb date seen in Nov/Dec to the next one.
func InferYear(day, month int, ref time.Time) int {
	year := ref.Year()
	switch {
	case month >= 11 && ref.Month() <= 2:
		year--
	case month <= 2 && ref.Month() >= 11:
		year++
	}
	return year
}
