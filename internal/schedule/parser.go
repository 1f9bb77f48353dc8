package schedule

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"staff-bot/internal/config"
	"staff-bot/internal/models"
)

// Rows at and below the washing-station section are layout artifacts,
// not schedule data. The section is introduced either by a "мойка"
// cell or by one of three bare first names.
var terminatorNames = map[string]bool{
	"ольга":     true,
	"екатерина": true,
	"наталья":   true,
}

// Parser turns raw CSV grids into week sheets and computes wages.
type Parser struct {
	keywords    []string // sorted longest-first for deterministic matching
	keywordRole map[string]models.Role
	rates       map[models.Role]float64
	defaultRate float64
	log         *zap.Logger
}

func NewParser(staff *config.Staff, log *zap.Logger) *Parser {
	keywords := make([]string, 0, len(staff.RoleKeywords))
	for kw := range staff.RoleKeywords {
		keywords = append(keywords, kw)
	}
	// Longest keyword first, then lexicographic: containment matching
	// stays deterministic regardless of table declaration order.
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
	return &Parser{
		keywords:    keywords,
		keywordRole: staff.RoleKeywords,
		rates:       staff.HourlyRates,
		defaultRate: staff.DefaultRate,
		log:         log,
	}
}

// DetectRole reports whether cell is a role-header cell and, if so,
// which role it introduces. First keyword match wins.
func (p *Parser) DetectRole(cell string) (models.Role, bool) {
	lower := strings.ToLower(strings.TrimSpace(cell))
	if lower == "" {
		return models.RoleUnknown, false
	}
	for _, kw := range p.keywords {
		if strings.Contains(lower, kw) {
			return p.keywordRole[kw], true
		}
	}
	return models.RoleUnknown, false
}

// Rate returns the hourly rate for a role, falling back to the default
// rate when the role carries no entry.
func (p *Parser) Rate(role models.Role) float64 {
	if r, ok := p.rates[role]; ok {
		return r
	}
	return p.defaultRate
}

// ParseWeek converts a raw grid into a WeekSheet. Row 0 holds DD.MM
// date labels, row 1 weekday abbreviations; rows from 2 on are role
// headers or employee rows. Malformed cells are skipped, the first
// terminator row ends parsing permanently.
func (p *Parser) ParseWeek(grid [][]string, gid, name string, ref time.Time) models.WeekSheet {
	sheet := models.WeekSheet{GID: gid, Name: name}
	if len(grid) < 2 {
		return sheet
	}
	dates := grid[0]
	sheet.StartDate = p.weekStart(dates, ref)

	currentRole := models.RoleUnknown
	for _, row := range grid[2:] {
		if len(row) == 0 {
			continue
		}
		fullName := strings.TrimSpace(row[0])
		lower := strings.ToLower(fullName)
		if strings.Contains(lower, "мойка") || terminatorNames[lower] {
			break
		}

		if role, ok := p.DetectRole(fullName); ok {
			currentRole = role
			continue
		}
		if fullName == "" {
			continue
		}

		for i := 1; i < len(row) && i < len(dates); i++ {
			span := strings.TrimSpace(row[i])
			date := strings.TrimSpace(dates[i])
			if span == "" || date == "" {
				continue
			}
			hours, ok := ShiftHours(span)
			if !ok {
				p.log.Warn("unparseable shift cell skipped",
					zap.String("name", fullName), zap.String("shift", span))
				continue
			}
			if hours == 0 {
				// Not distinguishable from a malformed entry; keep the
				// record but flag it.
				p.log.Warn("zero-duration shift",
					zap.String("name", fullName), zap.String("shift", span))
			}
			sheet.Shifts = append(sheet.Shifts, models.ShiftRecord{
				EmployeeName: fullName,
				Role:         currentRole,
				Date:         date,
				Span:         span,
				Hours:        hours,
			})
		}
	}
	return sheet
}

// weekStart infers the week's start date from the first data column's
// DD.MM label, with the Nov/Dec vs Jan/Feb year-boundary heuristic.
func (p *Parser) weekStart(dates []string, ref time.Time) time.Time {
	for _, cell := range dates {
		day, month, ok := parseShortDate(strings.TrimSpace(cell))
		if !ok {
			continue
		}
		year := models.InferYear(day, month, ref)
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location())
	}
	return time.Time{}
}

// ShiftsForDate collects every shift on the given DD.MM date across
// all cached weeks.
func ShiftsForDate(weeks []models.WeekSheet, date string) []models.ShiftRecord {
	var out []models.ShiftRecord
	for _, w := range weeks {
		for _, s := range w.Shifts {
			if s.Date == date {
				out = append(out, s)
			}
		}
	}
	return out
}

// WeeklySummary totals hours and pay for one employee's shifts.
func (p *Parser) WeeklySummary(shifts []models.ShiftRecord) (hours, pay float64) {
	for _, s := range shifts {
		hours += s.Hours
		pay += s.Hours * p.Rate(s.Role)
	}
	return hours, pay
}

// RolePriority orders roles for display, managers first.
func RolePriority(r models.Role) int {
	switch r {
	case models.RoleManager:
		return 0
	case models.RoleMentor:
		return 1
	case models.RoleInstructor:
		return 2
	case models.RoleUniversal:
		return 3
	case models.RolePizzamaker:
		return 4
	case models.RoleCashier:
		return 5
	case models.RoleCourier:
		return 6
	case models.RoleTrainee:
		return 7
	}
	return 99
}
