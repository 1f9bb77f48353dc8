package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"staff-bot/internal/models"
	"staff-bot/internal/store"
)

// Stores bundles the persisted collections the handlers work with.
type Stores struct {
	Registry *store.Registry
	Ledger   *store.Ledger
	Group    *store.GroupStore
	Ratings  *store.Ratings
	Medical  *store.Medical
	Messages *store.Messages
}

type Bot struct {
	API      *tgbotapi.BotAPI
	Stores   Stores
	Managers []string
	Log      *zap.Logger

	States      map[int64]*models.UserState
	StatesMutex sync.RWMutex
}

func New(token string, stores Stores, managers []string, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Info("authorized on account", zap.String("username", api.Self.UserName))

	return &Bot{
		API:      api,
		Stores:   stores,
		Managers: managers,
		Log:      log,
		States:   make(map[int64]*models.UserState),
	}, nil
}

func (b *Bot) SetState(userID int64, state string, data map[string]interface{}) {
	b.StatesMutex.Lock()
	defer b.StatesMutex.Unlock()

	b.States[userID] = &models.UserState{
		UserID:      userID,
		State:       state,
		TempData:    data,
		LastUpdated: time.Now(),
	}
}

func (b *Bot) GetState(userID int64) *models.UserState {
	b.StatesMutex.RLock()
	defer b.StatesMutex.RUnlock()

	return b.States[userID]
}

func (b *Bot) ClearState(userID int64) {
	b.StatesMutex.Lock()
	defer b.StatesMutex.Unlock()

	delete(b.States, userID)
}

// IsManager checks the flat allow-list of privileged surnames against
// the user's registered name.
func (b *Bot) IsManager(userID int64) bool {
	name, ok := b.Stores.Registry.Get(userID)
	if !ok {
		return false
	}
	lower := strings.ToLower(name)
	for _, m := range b.Managers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkup(chatID int64, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) SendPhoto(chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	_, err := b.API.Send(photo)
	return err
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string, replyMarkup interface{}) error {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if replyMarkup != nil {
		if markup, ok := replyMarkup.(*tgbotapi.InlineKeyboardMarkup); ok {
			msg.ReplyMarkup = markup
		}
	}

	_, err := b.API.Send(msg)
	return err
}

func (b *Bot) AnswerCallbackQuery(callbackID string, text string) error {
	callback := tgbotapi.NewCallback(callbackID, text)
	_, err := b.API.Request(callback)
	return err
}

// Keyboard builders

func (b *Bot) MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("График"),
			tgbotapi.NewKeyboardButton("Кто работает"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Заготовки"),
			tgbotapi.NewKeyboardButton("Рейтинги"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Медкнижки"),
			tgbotapi.NewKeyboardButton("Это не я"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// EmployeePickKeyboard lists employee names as callback buttons for
// the registration flow.
func (b *Bot) EmployeePickKeyboard(names []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, name := range names {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(name, "pick:"+name),
		})
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// PrepsShiftKeyboard offers morning/evening checklist buttons.
func (b *Bot) PrepsShiftKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("☀️ Утро", "preps:morning"),
			tgbotapi.NewInlineKeyboardButtonData("🌙 Вечер", "preps:evening"),
		),
	)
}
