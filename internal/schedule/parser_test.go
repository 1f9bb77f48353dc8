package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"staff-bot/internal/config"
	"staff-bot/internal/models"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(config.DefaultStaff(), zap.NewNop())
}

func TestParseWeek(t *testing.T) {
	p := newTestParser(t)
	grid := [][]string{
		{"", "24.11", "25.11"},
		{"", "пн", "вт"},
		{"Менеджер"},
		{"Иванов Петр", "9-17", "9-21(p)"},
	}
	ref := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)

	sheet := p.ParseWeek(grid, "123", "кухня 24-30", ref)

	require.Len(t, sheet.Shifts, 2)
	first := sheet.Shifts[0]
	assert.Equal(t, "Иванов Петр", first.EmployeeName)
	assert.Equal(t, models.RoleManager, first.Role)
	assert.Equal(t, "24.11", first.Date)
	assert.Equal(t, 8.0, first.Hours)

	second := sheet.Shifts[1]
	assert.Equal(t, "25.11", second.Date)
	assert.Equal(t, 12.0, second.Hours)

	assert.Equal(t, time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC), sheet.StartDate)
}

func TestParseWeekStopsAtTerminator(t *testing.T) {
	p := newTestParser(t)
	grid := [][]string{
		{"", "24.11"},
		{"", "пн"},
		{"Кассир"},
		{"Петрова Анна", "10-18"},
		{"Мойка:"},
		{"Сидорова Мария", "9-17"},
	}
	sheet := p.ParseWeek(grid, "1", "кухня", time.Now())

	require.Len(t, sheet.Shifts, 1)
	assert.Equal(t, "Петрова Анна", sheet.Shifts[0].EmployeeName)
}

func TestParseWeekStopsAtBareFirstNames(t *testing.T) {
	p := newTestParser(t)
	grid := [][]string{
		{"", "24.11"},
		{"", "пн"},
		{"Ольга", "9-17"},
		{"Иванов Петр", "9-17"},
	}
	sheet := p.ParseWeek(grid, "1", "кухня", time.Now())
	assert.Empty(t, sheet.Shifts)
}

func TestParseWeekSkipsMalformedCells(t *testing.T) {
	p := newTestParser(t)
	grid := [][]string{
		{"", "24.11", "25.11", ""},
		{"", "пн", "вт", ""},
		{"Пиццамейкер"},
		{"Иванов Петр", "выходной", "9-17", "9-17"},
	}
	sheet := p.ParseWeek(grid, "1", "кухня", time.Now())

	// The unparseable cell and the dateless column are skipped; the
	// parse never aborts.
	require.Len(t, sheet.Shifts, 1)
	assert.Equal(t, "25.11", sheet.Shifts[0].Date)
}

func TestDetectRole(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		cell string
		role models.Role
	}{
		{"Менеджер", models.RoleManager},
		{"менеджеры:", models.RoleManager},
		{"Стажёр", models.RoleTrainee},
		{"стажер", models.RoleTrainee}, // е spelling variant
		{"Пиццамейкеры", models.RolePizzamaker},
	}
	for _, tt := range tests {
		role, ok := p.DetectRole(tt.cell)
		require.True(t, ok, tt.cell)
		assert.Equal(t, tt.role, role, tt.cell)
	}

	_, ok := p.DetectRole("Иванов Петр")
	assert.False(t, ok)
	_, ok = p.DetectRole("")
	assert.False(t, ok)
}

func TestRateFallsBackToDefault(t *testing.T) {
	p := newTestParser(t)
	assert.Equal(t, 255.0, p.Rate(models.RoleManager))
	assert.Equal(t, 130.0, p.Rate(models.RoleTrainee))
	assert.Equal(t, 205.0, p.Rate(models.RoleUnknown))
}

func TestWeeklySummary(t *testing.T) {
	p := newTestParser(t)
	shifts := []models.ShiftRecord{
		{Role: models.RoleManager, Hours: 8},
		{Role: models.RoleManager, Hours: 12},
	}
	hours, pay := p.WeeklySummary(shifts)
	assert.Equal(t, 20.0, hours)
	assert.Equal(t, 20*255.0, pay)
}

func TestShiftsForDate(t *testing.T) {
	weeks := []models.WeekSheet{
		{Shifts: []models.ShiftRecord{
			{EmployeeName: "Иванов", Date: "24.11"},
			{EmployeeName: "Петрова", Date: "25.11"},
		}},
		{Shifts: []models.ShiftRecord{
			{EmployeeName: "Сидорова", Date: "24.11"},
		}},
	}
	got := ShiftsForDate(weeks, "24.11")
	require.Len(t, got, 2)
	assert.Equal(t, "Иванов", got[0].EmployeeName)
	assert.Equal(t, "Сидорова", got[1].EmployeeName)
}

func TestWeekStartYearBoundary(t *testing.T) {
	p := newTestParser(t)

	// A December sheet parsed in January belongs to the previous year.
	ref := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	sheet := p.ParseWeek([][]string{
		{"", "29.12"},
		{"", "пн"},
	}, "1", "кухня", ref)
	assert.Equal(t, 2025, sheet.StartDate.Year())

	// A January sheet parsed in December belongs to the next year.
	ref = time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	sheet = p.ParseWeek([][]string{
		{"", "05.01"},
		{"", "пн"},
	}, "1", "кухня", ref)
	assert.Equal(t, 2026, sheet.StartDate.Year())
}

func TestPreps(t *testing.T) {
	grid := make([][]string, 17)
	for i := range grid {
		grid[i] = make([]string, 14)
	}
	grid[1][0] = "Дни недели"
	grid[2][0] = "Соус томатный"
	grid[2][1] = "3"
	grid[3][0] = "Кол-во"
	grid[3][1] = "x"
	grid[10][2] = "Морепродукты"
	grid[10][3] = "2"

	morning := Preps(grid, 0, true)
	require.Len(t, morning, 1)
	assert.Equal(t, PrepItem{Name: "Соус томатный", Quantity: "3"}, morning[0])

	evening := Preps(grid, 1, false)
	require.Len(t, evening, 1)
	assert.Equal(t, PrepItem{Name: "Морепродукты", Quantity: "2"}, evening[0])

	assert.Nil(t, Preps(nil, 0, true))
	assert.Nil(t, Preps(grid, 7, true))
}
