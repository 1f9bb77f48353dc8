package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"staff-bot/internal/bot"
	"staff-bot/internal/identity"
	"staff-bot/internal/models"
	"staff-bot/internal/notify"
	"staff-bot/internal/schedule"
	"staff-bot/internal/store"
)

// Env carries the collaborators every handler needs.
type Env struct {
	Bot      *bot.Bot
	Schedule *schedule.Service
	Resolver *identity.Resolver
	Notify   *notify.Notifier
	Location *time.Location
}

func nowIn(e *Env) time.Time {
	return time.Now().In(e.Location)
}

// dayIndex converts Go's Sunday-first weekday to Monday=0.
func dayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func HandleStart(e *Env, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	if name, ok := e.Bot.Stores.Registry.Get(userID); ok {
		e.Bot.SendMessageWithMarkup(chatID,
			fmt.Sprintf("Привет, %s! Что ты хочешь сделать?", name),
			e.Bot.MainMenuKeyboard())
		return
	}

	names := e.Resolver.AllEmployees(e.Schedule.Weeks(context.Background(), false))
	if len(names) == 0 {
		// Schedule unavailable: fall back to the legacy free-text flow.
		e.Bot.SetState(userID, "awaiting_surname", nil)
		e.Bot.SendMessage(chatID,
			"Привет! Пожалуйста, введи свою фамилию, чтобы я мог найти твой график.")
		return
	}

	e.Bot.SendMessageWithMarkup(chatID,
		"Привет! Выбери себя из списка сотрудников:",
		e.Bot.EmployeePickKeyboard(names))
}

func HandleMessage(e *Env, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	if state := e.Bot.GetState(userID); state != nil {
		switch state.State {
		case "awaiting_surname":
			handleSurnameInput(e, message)
		case "awaiting_medical_entry":
			handleMedicalInput(e, message)
		case "awaiting_rating_photo":
			handleRatingPhoto(e, message, state)
		default:
			e.Bot.ClearState(userID)
		}
		return
	}

	switch text {
	case "График":
		handleMySchedule(e, message)
	case "Кто работает":
		handleWhoWorking(e, message)
	case "Заготовки":
		e.Bot.SendMessageWithMarkup(chatID, "Какая смена?", e.Bot.PrepsShiftKeyboard())
	case "Рейтинги":
		handleRatingsMenu(e, message)
	case "Медкнижки":
		handleMedicalMenu(e, message)
	case "Это не я":
		handleReset(e, message)
	default:
		if _, ok := e.Bot.Stores.Registry.Get(userID); !ok && text != "" {
			// Legacy path: free text from an unregistered user is
			// treated as a surname.
			handleSurnameInput(e, message)
			return
		}
		e.Bot.SendMessageWithMarkup(chatID, "Не понял. Выбери действие из меню.",
			e.Bot.MainMenuKeyboard())
	}
}

func HandleCallbackQuery(e *Env, callback *tgbotapi.CallbackQuery) {
	data := callback.Data
	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		e.Bot.AnswerCallbackQuery(callback.ID, "")
		return
	}

	switch parts[0] {
	case "pick":
		registerUser(e, userID, chatID, parts[1])
	case "preps":
		morning := parts[1] == "morning"
		text := e.Notify.FormatPreps(context.Background(), dayIndex(nowIn(e)), morning)
		e.Bot.SendMessage(chatID, text)
	case "board":
		handleBoardView(e, chatID, parts[1])
	}
	e.Bot.AnswerCallbackQuery(callback.ID, "")
}

func handleSurnameInput(e *Env, message *tgbotapi.Message) {
	surname := strings.TrimSpace(message.Text)
	if surname == "" {
		e.Bot.SendMessage(message.Chat.ID, "Пожалуйста, введи фамилию.")
		return
	}
	e.Bot.ClearState(message.From.ID)
	registerUser(e, message.From.ID, message.Chat.ID, surname)
}

func registerUser(e *Env, userID, chatID int64, rawName string) {
	if e.Resolver.IsBlacklisted(rawName) {
		e.Bot.SendMessage(chatID, "Этого сотрудника нет в графике.")
		return
	}
	canonical := e.Resolver.Resolve(rawName)

	err := e.Bot.Stores.Registry.Register(userID, canonical)
	if errors.Is(err, store.ErrNameTaken) {
		// Ambiguity is surfaced and registration refused, never
		// silently overwritten.
		e.Bot.SendMessage(chatID,
			fmt.Sprintf("Имя «%s» уже занято другим аккаунтом. Обратись к менеджеру.", canonical))
		return
	}
	if err != nil {
		e.Bot.Log.Error("failed to register user",
			zap.Int64("user_id", userID), zap.Error(err))
		e.Bot.SendMessage(chatID, "Не удалось сохранить регистрацию. Попробуй позже.")
		return
	}

	e.Bot.Log.Info("user registered",
		zap.Int64("user_id", userID), zap.String("name", canonical))
	e.Bot.SendMessageWithMarkup(chatID,
		fmt.Sprintf("Готово, %s! Что ты хочешь сделать?", canonical),
		e.Bot.MainMenuKeyboard())
}

func handleReset(e *Env, message *tgbotapi.Message) {
	if err := e.Bot.Stores.Registry.Reset(message.From.ID); err != nil {
		e.Bot.Log.Error("failed to reset registration", zap.Error(err))
		e.Bot.SendMessage(message.Chat.ID, "Не удалось сбросить регистрацию.")
		return
	}
	e.Bot.SendMessage(message.Chat.ID,
		"Регистрация сброшена. Отправь /start, чтобы выбрать себя заново.")
}

func handleMySchedule(e *Env, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	registered, ok := e.Bot.Stores.Registry.Get(message.From.ID)
	if !ok {
		e.Bot.SendMessage(chatID, "Сначала зарегистрируйся: /start")
		return
	}

	name, shifts := e.Schedule.EmployeeWeek(context.Background(), registered, identity.Match)
	if name == "" {
		e.Bot.SendMessage(chatID,
			fmt.Sprintf("Сотрудник с фамилией «%s» не найден в графике.", registered))
		return
	}
	if len(shifts) == 0 {
		e.Bot.SendMessage(chatID,
			fmt.Sprintf("График для %s найден, но смен не обнаружено.", name))
		return
	}

	hours, pay := e.Schedule.Parser().WeeklySummary(shifts)
	rate := e.Schedule.Parser().Rate(shifts[0].Role)

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 График работы\n👤 %s\n💼 Роль: %s\n\n", name, shifts[0].Role)
	fmt.Fprintf(&b, "⏱ Общие часы за неделю: %.0f часов\n", hours)
	fmt.Fprintf(&b, "💵 Ставка: %.0f₽/час\n", rate)
	fmt.Fprintf(&b, "💰 Оплата за неделю: %.0f₽\n\n", pay)
	for _, s := range shifts {
		fmt.Fprintf(&b, "• %s — %s\n", s.Date, s.Span)
	}
	e.Bot.SendMessage(chatID, b.String())
}

func handleWhoWorking(e *Env, message *tgbotapi.Message) {
	today := models.ShortDate(nowIn(e))
	text := e.Notify.FormatWho(context.Background(), today)
	e.Bot.SendMessage(message.Chat.ID, text)
}
