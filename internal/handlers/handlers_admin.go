package handlers

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"staff-bot/internal/models"
)

const medicalWarningDays = 30

// Ratings photo boards

var ratingBoards = []string{"Скорость", "Продукт"}

func handleRatingsMenu(e *Env, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, board := range ratingBoards {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(board, "board:"+board),
		})
	}
	e.Bot.SendMessageWithMarkup(chatID, "Какой рейтинг показать?",
		tgbotapi.NewInlineKeyboardMarkup(rows...))

	if e.Bot.IsManager(message.From.ID) {
		e.Bot.SetState(message.From.ID, "awaiting_rating_photo",
			map[string]interface{}{"board": ratingBoards[0]})
		e.Bot.SendMessage(chatID,
			"Чтобы обновить доску, пришли фото с подписью — названием доски.")
	}
}

func handleBoardView(e *Env, chatID int64, board string) {
	photos := e.Bot.Stores.Ratings.List(board)
	if len(photos) == 0 {
		e.Bot.SendMessage(chatID, fmt.Sprintf("Доска «%s» пока пуста.", board))
		return
	}
	for _, fileID := range photos {
		if err := e.Bot.SendPhoto(chatID, fileID, board); err != nil {
			e.Bot.Log.Error("failed to send board photo",
				zap.String("board", board), zap.Error(err))
		}
	}
}

func handleRatingPhoto(e *Env, message *tgbotapi.Message, state *models.UserState) {
	if len(message.Photo) == 0 {
		e.Bot.ClearState(message.From.ID)
		// Not a photo: fall through to normal menu handling.
		HandleMessage(e, message)
		return
	}
	if !e.Bot.IsManager(message.From.ID) {
		e.Bot.ClearState(message.From.ID)
		return
	}

	board := strings.TrimSpace(message.Caption)
	if board == "" {
		if b, ok := state.TempData["board"].(string); ok {
			board = b
		}
	}
	// Telegram sends several sizes; the last one is the largest.
	fileID := message.Photo[len(message.Photo)-1].FileID
	if err := e.Bot.Stores.Ratings.Add(board, fileID); err != nil {
		e.Bot.Log.Error("failed to save rating photo", zap.Error(err))
		e.Bot.SendMessage(message.Chat.ID, "Не удалось сохранить фото.")
		return
	}
	e.Bot.ClearState(message.From.ID)
	e.Bot.SendMessage(message.Chat.ID,
		fmt.Sprintf("Фото добавлено на доску «%s».", board))
}

// Medical records

func handleMedicalMenu(e *Env, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !e.Bot.IsManager(message.From.ID) {
		e.Bot.SendMessage(chatID, "Эта функция доступна только менеджерам.")
		return
	}

	records := e.Bot.Stores.Medical.List()
	var b strings.Builder
	b.WriteString("🩺 Медицинские документы\n\n")
	if len(records) == 0 {
		b.WriteString("Записей пока нет.\n")
	}
	for _, r := range records {
		fmt.Fprintf(&b, "👤 %s", r.Name)
		if r.Status == "missing_docs" {
			b.WriteString(" — документы отсутствуют\n")
			continue
		}
		if r.MedCommissionDate != "" {
			fmt.Fprintf(&b, " | мед: %s", r.MedCommissionDate)
		}
		if r.SanMinDate != "" {
			fmt.Fprintf(&b, " | сан: %s", r.SanMinDate)
		}
		b.WriteString("\n")
	}

	alerts := e.Bot.Stores.Medical.ExpiringWithin(medicalWarningDays, nowIn(e))
	if len(alerts) > 0 {
		b.WriteString("\n⚠️ Истекают в ближайший месяц:\n")
		for _, a := range alerts {
			fmt.Fprintf(&b, "• %s — %s до %s (осталось %d дн.)\n",
				a.Name, a.DocType, a.Date, a.DaysLeft)
		}
	}

	b.WriteString("\nЧтобы обновить запись, отправь строку вида:\nФамилия Имя; мед ДД.ММ.ГГГГ; сан ДД.ММ.ГГГГ")
	e.Bot.SetState(message.From.ID, "awaiting_medical_entry", nil)
	e.Bot.SendMessage(chatID, b.String())
}

func handleMedicalInput(e *Env, message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	e.Bot.ClearState(userID)

	if !e.Bot.IsManager(userID) {
		return
	}

	rec, err := parseMedicalEntry(message.Text)
	if err != nil {
		// Not an entry: treat as a regular menu action.
		HandleMessage(e, message)
		return
	}
	if err := e.Bot.Stores.Medical.Upsert(rec); err != nil {
		e.Bot.Log.Error("failed to save medical record", zap.Error(err))
		e.Bot.SendMessage(chatID, "Не удалось сохранить запись.")
		return
	}
	e.Bot.SendMessage(chatID, fmt.Sprintf("Запись для %s обновлена.", rec.Name))
}

// parseMedicalEntry reads "Name; мед DD.MM.YYYY; сан DD.MM.YYYY".
// Either date part may be omitted.
func parseMedicalEntry(text string) (models.MedicalRecord, error) {
	parts := strings.Split(text, ";")
	name := strings.TrimSpace(parts[0])
	if name == "" || len(parts) < 2 {
		return models.MedicalRecord{}, fmt.Errorf("not a medical entry")
	}

	rec := models.MedicalRecord{Name: name}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(strings.ToLower(p))
		fields := strings.Fields(p)
		if len(fields) != 2 {
			continue
		}
		if _, err := time.Parse(models.FullDateLayout, fields[1]); err != nil {
			return models.MedicalRecord{}, fmt.Errorf("bad date %q: %w", fields[1], err)
		}
		switch fields[0] {
		case "мед":
			rec.MedCommissionDate = fields[1]
		case "сан":
			rec.SanMinDate = fields[1]
		}
	}
	if rec.MedCommissionDate == "" && rec.SanMinDate == "" {
		return models.MedicalRecord{}, fmt.Errorf("no dates in entry")
	}
	return rec, nil
}

// Group chat

// HandleGroupMessage binds the broadcast group on /bind and collects
// ordinary messages into the daily feedback log.
func HandleGroupMessage(e *Env, message *tgbotapi.Message) {
	if message.IsCommand() && message.Command() == "bind" {
		if err := e.Bot.Stores.Group.Bind(message.Chat.ID); err != nil {
			e.Bot.Log.Error("failed to bind group", zap.Error(err))
			e.Bot.SendMessage(message.Chat.ID, "Не удалось привязать группу.")
			return
		}
		e.Bot.Log.Info("group bound", zap.Int64("group_id", message.Chat.ID))
		e.Bot.SendMessage(message.Chat.ID,
			"Группа привязана. Сюда будут приходить уведомления.")
		return
	}

	collectGroupMessage(e, message)
}

func collectGroupMessage(e *Env, message *tgbotapi.Message) {
	// Only the bound group's traffic goes into the daily log.
	if e.Bot.Stores.Group.GroupID() != message.Chat.ID {
		return
	}

	now := nowIn(e)
	msg := models.CollectedMessage{
		Type:      "text",
		FirstName: message.From.FirstName,
		LastName:  message.From.LastName,
		Text:      message.Text,
		Timestamp: now.Format("15:04"),
	}
	if len(message.Photo) > 0 {
		msg.Type = "image"
		msg.Text = ""
		msg.Caption = message.Caption
		msg.FileID = message.Photo[len(message.Photo)-1].FileID
	} else if strings.TrimSpace(message.Text) == "" {
		return
	}

	if err := e.Bot.Stores.Messages.Append(msg, now); err != nil {
		e.Bot.Log.Error("failed to collect group message", zap.Error(err))
	}
}
