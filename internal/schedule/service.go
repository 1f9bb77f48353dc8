package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"

	"staff-bot/internal/models"
	"staff-bot/internal/sheets"
)

// Service composes the spreadsheet client and the parser into the
// schedule pipeline: discover tabs, download each grid, parse.
type Service struct {
	client *sheets.Client
	parser *Parser
	loc    *time.Location
	log    *zap.Logger
}

func NewService(client *sheets.Client, parser *Parser, loc *time.Location, log *zap.Logger) *Service {
	return &Service{client: client, parser: parser, loc: loc, log: log}
}

// Weeks fetches and parses all currently known week sheets. Empty on
// total fetch failure; callers check for emptiness.
func (s *Service) Weeks(ctx context.Context, forceRefresh bool) []models.WeekSheet {
	now := time.Now().In(s.loc)
	var weeks []models.WeekSheet
	for _, tab := range s.client.Tabs(ctx, forceRefresh) {
		grid := s.client.ScheduleCSV(ctx, tab.GID)
		if len(grid) < 2 {
			s.log.Warn("empty or short grid for tab", zap.String("gid", tab.GID))
			continue
		}
		weeks = append(weeks, s.parser.ParseWeek(grid, tab.GID, tab.Name, now))
	}
	return weeks
}

// ShiftsForDate returns every shift on a DD.MM date across all weeks.
func (s *Service) ShiftsForDate(ctx context.Context, date string) []models.ShiftRecord {
	return ShiftsForDate(s.Weeks(ctx, false), date)
}

// EmployeeWeek returns the shifts of the employee matching the
// registered surname-or-name in the most relevant week, together with
// the matched schedule row name. Weeks are searched in tab order; the
// first week containing a match wins.
func (s *Service) EmployeeWeek(ctx context.Context, registered string, match func(registered, scheduleName string) bool) (string, []models.ShiftRecord) {
	for _, w := range s.Weeks(ctx, false) {
		var found string
		var shifts []models.ShiftRecord
		for _, rec := range w.Shifts {
			if match(registered, rec.EmployeeName) {
				if found == "" {
					found = rec.EmployeeName
				}
				if rec.EmployeeName == found {
					shifts = append(shifts, rec)
				}
			}
		}
		if found != "" {
			return found, shifts
		}
	}
	return "", nil
}

// Parser exposes the wage tables to callers that format summaries.
func (s *Service) Parser() *Parser { return s.parser }

// PrepsFor fetches the prep checklist for one weekday and shift.
func (s *Service) PrepsFor(ctx context.Context, dayIndex int, morning bool) []PrepItem {
	grid := s.client.PrepsCSV(ctx)
	return Preps(grid, dayIndex, morning)
}
