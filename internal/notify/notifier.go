package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"staff-bot/internal/identity"
	"staff-bot/internal/models"
	"staff-bot/internal/schedule"
)

// ShiftSource supplies shifts per calendar date.
type ShiftSource interface {
	ShiftsForDate(ctx context.Context, date string) []models.ShiftRecord
	PrepsFor(ctx context.Context, dayIndex int, morning bool) []schedule.PrepItem
}

// Sender delivers outbound chat messages. Fire-and-forget: failures
// are logged by the caller, never retried.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// UserDirectory lists registered users.
type UserDirectory interface {
	All() map[string]string
}

// ReminderLedger is the persisted de-duplication record.
type ReminderLedger interface {
	LastNotified(userID string) string
	MarkNotified(userID, date string) error
}

// GroupBinding resolves the broadcast group chat.
type GroupBinding interface {
	GroupID() int64
}

// MessageLog provides the collected group messages for the evening
// digest.
type MessageLog interface {
	Today(now time.Time) ([]models.CollectedMessage, error)
	Cleanup(now time.Time) error
}

// The due window is 65 minutes, not 60: the 5-minute tolerance keeps a
// shift from falling between two consecutive poll ticks.
const dueWindowMinutes = 65

// Notifier drives shift reminders and scheduled group broadcasts.
type Notifier struct {
	src    ShiftSource
	users  UserDirectory
	ledger ReminderLedger
	group  GroupBinding
	msgs   MessageLog
	sender Sender
	loc    *time.Location
	log    *zap.Logger
}

func New(src ShiftSource, users UserDirectory, ledger ReminderLedger, group GroupBinding, msgs MessageLog, sender Sender, loc *time.Location, log *zap.Logger) *Notifier {
	return &Notifier{
		src:    src,
		users:  users,
		ledger: ledger,
		group:  group,
		msgs:   msgs,
		sender: sender,
		loc:    loc,
		log:    log,
	}
}

// CheckShifts is the 5-minute poll: scan today's and tomorrow's shifts
// and remind each matched user once, roughly an hour before start.
// Running it twice inside one due window sends nothing the second
// time; the ledger guarantees at most one reminder per user and date.
func (n *Notifier) CheckShifts(ctx context.Context, now time.Time) {
	now = now.In(n.loc)
	users := n.users.All()
	if len(users) == 0 {
		return
	}

	// Tomorrow is included so shifts just past midnight are not missed.
	for _, day := range []time.Time{now, now.AddDate(0, 0, 1)} {
		dateStr := models.ShortDate(day)
		shifts := n.src.ShiftsForDate(ctx, dateStr)
		if len(shifts) == 0 {
			continue
		}

		for _, shift := range shifts {
			// All matching accounts are reminded: more than one
			// registration can legitimately match one schedule name.
			var matched []string
			for uid, registered := range users {
				if identity.Match(registered, shift.EmployeeName) {
					matched = append(matched, uid)
				}
			}

			for _, uid := range matched {
				if n.ledger.LastNotified(uid) == dateStr {
					continue
				}
				h, m, ok := schedule.StartTime(shift.Span)
				if !ok {
					continue
				}
				start := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, n.loc)
				minutes := start.Sub(now).Minutes()
				if minutes <= 0 || minutes > dueWindowMinutes {
					continue
				}

				chatID, err := strconv.ParseInt(uid, 10, 64)
				if err != nil {
					n.log.Error("bad user id in registry", zap.String("user_id", uid))
					continue
				}
				text := fmt.Sprintf("⏰ Напоминание!\nТвоя смена начинается через час (%s).\nПора собираться на работу!", shift.Span)
				if err := n.sender.SendMessage(chatID, text); err != nil {
					n.log.Error("failed to send shift reminder",
						zap.String("user_id", uid), zap.Error(err))
					continue
				}
				remindersSent.Inc()
				n.log.Info("sent shift reminder",
					zap.String("name", shift.EmployeeName),
					zap.String("user_id", uid),
					zap.String("shift", shift.Span),
					zap.String("date", dateStr))
				if err := n.ledger.MarkNotified(uid, dateStr); err != nil {
					n.log.Error("failed to persist notification ledger", zap.Error(err))
				}
			}
		}
	}
}
