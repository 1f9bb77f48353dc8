package notify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"staff-bot/internal/models"
	"staff-bot/internal/schedule"
	"staff-bot/internal/store"
)

type mockShiftSource struct {
	shifts map[string][]models.ShiftRecord
	preps  []schedule.PrepItem
}

func (m *mockShiftSource) ShiftsForDate(_ context.Context, date string) []models.ShiftRecord {
	return m.shifts[date]
}

func (m *mockShiftSource) PrepsFor(_ context.Context, _ int, _ bool) []schedule.PrepItem {
	return m.preps
}

type mockUsers struct {
	users map[string]string
}

func (m *mockUsers) All() map[string]string { return m.users }

type mockSender struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	chatID int64
	text   string
}

func (m *mockSender) SendMessage(chatID int64, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{chatID, text})
	return nil
}

type mockGroup struct{ id int64 }

func (m *mockGroup) GroupID() int64 { return m.id }

func newTestNotifier(t *testing.T, src ShiftSource, users UserDirectory, sender Sender, group GroupBinding) (*Notifier, *store.Ledger) {
	t.Helper()
	ledger, err := store.OpenLedger(filepath.Join(t.TempDir(), "notifications.json"))
	require.NoError(t, err)
	msgs := store.OpenMessages(t.TempDir())
	return New(src, users, ledger, group, msgs, sender, time.UTC, zap.NewNop()), ledger
}

func shiftDay(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 11, 24, 0, 0, 0, 0, time.UTC)
}

func TestCheckShiftsDueWindow(t *testing.T) {
	day := shiftDay(t)
	src := &mockShiftSource{shifts: map[string][]models.ShiftRecord{
		"24.11": {{EmployeeName: "Иванов Петр", Span: "9-17", Date: "24.11"}},
	}}
	users := &mockUsers{users: map[string]string{"111": "Иванов"}}

	tests := []struct {
		name    string
		now     time.Time
		wantDue bool
	}{
		{"shift already started", day.Add(9 * time.Hour), false},
		{"one minute before", day.Add(8*time.Hour + 59*time.Minute), true},
		{"65 minutes before", day.Add(7*time.Hour + 55*time.Minute), true},
		{"66 minutes before", day.Add(7*time.Hour + 54*time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mockSender{}
			n, _ := newTestNotifier(t, src, users, sender, &mockGroup{})

			n.CheckShifts(context.Background(), tt.now)
			if tt.wantDue {
				require.Len(t, sender.sent, 1)
				assert.Equal(t, int64(111), sender.sent[0].chatID)
				assert.Contains(t, sender.sent[0].text, "9-17")
			} else {
				assert.Empty(t, sender.sent)
			}
		})
	}
}

func TestCheckShiftsIdempotent(t *testing.T) {
	day := shiftDay(t)
	src := &mockShiftSource{shifts: map[string][]models.ShiftRecord{
		"24.11": {{EmployeeName: "Иванов Петр", Span: "9-17", Date: "24.11"}},
	}}
	users := &mockUsers{users: map[string]string{"111": "Иванов"}}
	sender := &mockSender{}
	n, ledger := newTestNotifier(t, src, users, sender, &mockGroup{})

	now := day.Add(8*time.Hour + 30*time.Minute)
	n.CheckShifts(context.Background(), now)
	n.CheckShifts(context.Background(), now.Add(5*time.Minute))

	// The ledger guarantees at most one reminder per user and date.
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, "24.11", ledger.LastNotified("111"))
}

func TestCheckShiftsNotifiesAllMatchingUsers(t *testing.T) {
	day := shiftDay(t)
	src := &mockShiftSource{shifts: map[string][]models.ShiftRecord{
		"24.11": {{EmployeeName: "Иванов Петр", Span: "9-17", Date: "24.11"}},
	}}
	// Two accounts legitimately match one schedule name.
	users := &mockUsers{users: map[string]string{
		"111": "Иванов",
		"222": "Иванов Петр",
		"333": "Сидорова",
	}}
	sender := &mockSender{}
	n, _ := newTestNotifier(t, src, users, sender, &mockGroup{})

	n.CheckShifts(context.Background(), day.Add(8*time.Hour+30*time.Minute))

	require.Len(t, sender.sent, 2)
	ids := []int64{sender.sent[0].chatID, sender.sent[1].chatID}
	assert.ElementsMatch(t, []int64{111, 222}, ids)
}

func TestCheckShiftsCoversTomorrow(t *testing.T) {
	day := shiftDay(t)
	// An early shift tomorrow must be caught by a late check today.
	src := &mockShiftSource{shifts: map[string][]models.ShiftRecord{
		"25.11": {{EmployeeName: "Иванов Петр", Span: "0-8", Date: "25.11"}},
	}}
	users := &mockUsers{users: map[string]string{"111": "Иванов"}}
	sender := &mockSender{}
	n, _ := newTestNotifier(t, src, users, sender, &mockGroup{})

	n.CheckShifts(context.Background(), day.Add(23*time.Hour+30*time.Minute))

	require.Len(t, sender.sent, 1)
}

func TestCheckShiftsSendFailureLeavesLedgerClean(t *testing.T) {
	day := shiftDay(t)
	src := &mockShiftSource{shifts: map[string][]models.ShiftRecord{
		"24.11": {{EmployeeName: "Иванов Петр", Span: "9-17", Date: "24.11"}},
	}}
	users := &mockUsers{users: map[string]string{"111": "Иванов"}}
	sender := &mockSender{err: assert.AnError}
	n, ledger := newTestNotifier(t, src, users, sender, &mockGroup{})

	n.CheckShifts(context.Background(), day.Add(8*time.Hour+30*time.Minute))

	// A failed send is not marked: the user is retried next tick.
	assert.Empty(t, ledger.LastNotified("111"))
}

func TestWhoBroadcast(t *testing.T) {
	src := &mockShiftSource{shifts: map[string][]models.ShiftRecord{
		models.ShortDate(time.Now().UTC()): {
			{EmployeeName: "Иванов Петр", Span: "9-17", Role: models.RoleManager},
			{EmployeeName: "Петрова Анна", Span: "10-18", Role: models.RoleCashier},
		},
	}}
	sender := &mockSender{}
	n, _ := newTestNotifier(t, src, &mockUsers{}, sender, &mockGroup{id: -100500})

	n.WhoBroadcast(context.Background(), time.Now().UTC())

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(-100500), sender.sent[0].chatID)
	assert.Contains(t, sender.sent[0].text, "Менеджеры")
	assert.Contains(t, sender.sent[0].text, "Иванов Петр (9-17)")
	assert.Contains(t, sender.sent[0].text, "Кассиры")
}

func TestWhoBroadcastNoGroupBound(t *testing.T) {
	sender := &mockSender{}
	n, _ := newTestNotifier(t, &mockShiftSource{}, &mockUsers{}, sender, &mockGroup{})

	n.WhoBroadcast(context.Background(), time.Now())
	assert.Empty(t, sender.sent)
}

func TestFormatWhoEmpty(t *testing.T) {
	n, _ := newTestNotifier(t, &mockShiftSource{}, &mockUsers{}, &mockSender{}, &mockGroup{})
	text := n.FormatWho(context.Background(), "24.11")
	assert.Contains(t, text, "нет смен")
}

func TestPrepsBroadcastMorningEvening(t *testing.T) {
	src := &mockShiftSource{preps: []schedule.PrepItem{{Name: "Соус", Quantity: "3"}}}
	sender := &mockSender{}
	n, _ := newTestNotifier(t, src, &mockUsers{}, sender, &mockGroup{id: -1})

	morning := time.Date(2025, 11, 24, 8, 55, 0, 0, time.UTC)
	n.PrepsBroadcast(context.Background(), morning)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "Утро")

	evening := time.Date(2025, 11, 24, 16, 55, 0, 0, time.UTC)
	n.PrepsBroadcast(context.Background(), evening)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[1].text, "Вечер")
}

func TestFeedbackDigest(t *testing.T) {
	sender := &mockSender{}
	ledgerDir := t.TempDir()
	ledger, err := store.OpenLedger(filepath.Join(ledgerDir, "n.json"))
	require.NoError(t, err)
	msgs := store.OpenMessages(t.TempDir())
	n := New(&mockShiftSource{}, &mockUsers{}, ledger, &mockGroup{id: -1}, msgs, sender, time.UTC, zap.NewNop())

	now := time.Date(2025, 11, 24, 22, 52, 0, 0, time.UTC)

	// Nothing collected: digest is skipped.
	n.FeedbackDigest(context.Background(), now)
	assert.Empty(t, sender.sent)

	require.NoError(t, msgs.Append(models.CollectedMessage{
		Type: "text", FirstName: "Анна", Text: "всё чисто", Timestamp: "18:30",
	}, now))
	n.FeedbackDigest(context.Background(), now)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "всё чисто")
	assert.Contains(t, sender.sent[0].text, "1 текст. сообщ.")
}
