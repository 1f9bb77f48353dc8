package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"staff-bot/internal/models"
	"staff-bot/internal/schedule"
)

var weekdayNames = []string{
	"Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота", "Воскресенье",
}

var roleGroupTitles = map[models.Role]string{
	models.RoleManager:    "Менеджеры",
	models.RoleMentor:     "Наставники",
	models.RoleInstructor: "Инструктора",
	models.RoleUniversal:  "Универсалы",
	models.RoleCashier:    "Кассиры",
	models.RolePizzamaker: "Пиццамейкеры",
	models.RoleCourier:    "Курьеры",
	models.RoleTrainee:    "Стажёры",
}

// dayIndex converts Go's Sunday-first weekday to Monday=0.
func dayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WhoBroadcast sends the daily "who is working today" message to the
// bound group. Stateless: re-running just re-sends current data.
func (n *Notifier) WhoBroadcast(ctx context.Context, now time.Time) {
	groupID := n.group.GroupID()
	if groupID == 0 {
		return
	}
	now = now.In(n.loc)
	text := n.FormatWho(ctx, models.ShortDate(now))
	msg := "🔔 Кто сегодня работает\n\n" + text
	if err := n.sender.SendMessage(groupID, msg); err != nil {
		n.log.Error("failed to send who-is-working broadcast", zap.Error(err))
		return
	}
	n.log.Info("sent who-is-working broadcast", zap.Int64("group_id", groupID))
}

// FormatWho renders the on-shift roster for a date, grouped by role.
func (n *Notifier) FormatWho(ctx context.Context, date string) string {
	shifts := n.src.ShiftsForDate(ctx, date)
	if len(shifts) == 0 {
		return fmt.Sprintf("На %s нет смен в графике.", date)
	}

	byRole := make(map[models.Role][]models.ShiftRecord)
	for _, s := range shifts {
		byRole[s.Role] = append(byRole[s.Role], s)
	}
	roles := make([]models.Role, 0, len(byRole))
	for r := range byRole {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool {
		return schedule.RolePriority(roles[i]) < schedule.RolePriority(roles[j])
	})

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Дата: %s\n👥 Коллеги на смене: %d человек(а)\n", date, len(shifts))
	for _, role := range roles {
		title, ok := roleGroupTitles[role]
		if !ok {
			title = "Неизвестно"
		}
		fmt.Fprintf(&b, "\n👥 %s:\n", title)
		for _, s := range byRole[role] {
			fmt.Fprintf(&b, "👤 %s (%s)\n", s.EmployeeName, s.Span)
		}
	}
	return b.String()
}

// PrepsBroadcast sends the prep checklist to the bound group. Runs at
// 08:55 and 16:55; the trigger hour selects the morning or evening
// list, with a coarse window fallback for manual runs.
func (n *Notifier) PrepsBroadcast(ctx context.Context, now time.Time) {
	groupID := n.group.GroupID()
	if groupID == 0 {
		return
	}
	now = now.In(n.loc)

	var morning bool
	switch now.Hour() {
	case 8:
		morning = true
	case 16:
		morning = false
	default:
		morning = now.Hour() < 12
		n.log.Warn("preps broadcast at unexpected hour",
			zap.Int("hour", now.Hour()), zap.Bool("morning", morning))
	}

	text := n.FormatPreps(ctx, dayIndex(now), morning)
	msg := "🔔 Напоминание о заготовках\n\n" + text
	if err := n.sender.SendMessage(groupID, msg); err != nil {
		n.log.Error("failed to send preps broadcast", zap.Error(err))
		return
	}
	n.log.Info("sent preps broadcast",
		zap.Int64("group_id", groupID), zap.Bool("morning", morning))
}

// FormatPreps renders the checklist for one weekday and shift.
func (n *Notifier) FormatPreps(ctx context.Context, dayIdx int, morning bool) string {
	items := n.src.PrepsFor(ctx, dayIdx, morning)
	if len(items) == 0 {
		return "Нет заготовок на этот день/смену."
	}
	title := "🌙 Вечер"
	if morning {
		title = "☀️ Утро"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔪 Заготовки на %s (%s)\n━━━━━━━━━━━━\n", weekdayNames[dayIdx], title)
	for _, it := range items {
		fmt.Fprintf(&b, "• %s: %s\n", it.Name, it.Quantity)
	}
	return b.String()
}

// FeedbackDigest sends the day's collected group messages as a raw
// digest in the evening.
func (n *Notifier) FeedbackDigest(ctx context.Context, now time.Time) {
	groupID := n.group.GroupID()
	if groupID == 0 {
		return
	}
	now = now.In(n.loc)

	msgs, err := n.msgs.Today(now)
	if err != nil {
		n.log.Error("failed to load collected messages", zap.Error(err))
		return
	}
	if len(msgs) == 0 {
		n.log.Info("no messages collected today, skipping feedback digest")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Обратная связь за %s\n\n", now.Format("02.01.2006"))
	texts, images := 0, 0
	for _, m := range msgs {
		user := strings.TrimSpace(m.FirstName + " " + m.LastName)
		switch {
		case m.Type == "image":
			images++
			fmt.Fprintf(&b, "📷 [%s] %s", user, m.Timestamp)
			if m.Caption != "" {
				fmt.Fprintf(&b, ": %s", m.Caption)
			}
			b.WriteString("\n")
		case m.Text != "":
			texts++
			fmt.Fprintf(&b, "💬 [%s] %s: %s\n", user, m.Timestamp, m.Text)
		}
	}
	fmt.Fprintf(&b, "\n📊 Всего: %d текст. сообщ., %d изображ.", texts, images)

	if err := n.sender.SendMessage(groupID, b.String()); err != nil {
		n.log.Error("failed to send feedback digest", zap.Error(err))
		return
	}
	n.log.Info("sent feedback digest", zap.Int64("group_id", groupID))
}

// ResetDailyData removes stale message logs at midnight.
func (n *Notifier) ResetDailyData(now time.Time) {
	if err := n.msgs.Cleanup(now.In(n.loc)); err != nil {
		n.log.Error("failed to clean up message logs", zap.Error(err))
		return
	}
	n.log.Info("daily data reset completed")
}
