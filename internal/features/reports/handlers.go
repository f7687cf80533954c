// Package reports - handlers.go принимает текст из группового чата и отвечает на него.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/bot/middleware"
	"serotonyl.ru/poker-bot/internal/common"
)

// UsageText - подсказка по формату отчёта (для /start и /help).
const UsageText = "Привет! Отправь отчёт в формате:\n\n" +
	"Результаты 26.07.2025:\n" +
	"@user1 +100\n" +
	"@user2 -300\n" +
	"Имя Фамилия +200\n\n" +
	"Статистика: /stats"

// Handler обрабатывает отчёты в групповых чатах.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик отчётов.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleMessage разбирает сообщение группы. Обычные сообщения (без заголовка отчёта)
// молча пропускаются. Возвращает true, если сообщение было отчётом.
func (h *Handler) HandleMessage(ctx context.Context, message *tgbotapi.Message) bool {
	ps, ok, err := Parse(message.Text)
	if !ok {
		return false
	}

	var conf *Confirmation
	if err == nil {
		conf, err = h.service.Ingest(ctx, message.Chat.ID, message.Chat.Title, ps, Digest(message.Text))
	}
	if err != nil && !errors.Is(err, common.ErrDuplicateSession) && !errors.Is(err, common.ErrInvalidDateFormat) {
		middleware.Log(ctx).WithError(err).WithField("chat_id", message.Chat.ID).Error("Отчёт не сохранён")
	}

	h.reply(message, ReplyText(ps.Date, conf, err))
	return true
}

// ReplyText превращает итог приёма отчёта в ответ пользователю.
func ReplyText(date time.Time, conf *Confirmation, err error) string {
	switch {
	case errors.Is(err, common.ErrInvalidDateFormat):
		return "Неверный формат даты. Нужно: Результаты ДД.ММ.ГГГГ:"
	case errors.Is(err, common.ErrDuplicateSession):
		return fmt.Sprintf("Сессия за %s уже сохранена.", common.FormatDate(date))
	case err != nil:
		return "❌ Не удалось сохранить результаты, попробуйте позже"
	case conf == nil || conf.Recorded == 0:
		return fmt.Sprintf("Сессия за %s сохранена, но в отчёте нет ни одного результата.", common.FormatDate(date))
	default:
		return fmt.Sprintf("Результаты сохранены ✅ (%s: %d %s)",
			common.FormatDate(conf.Date), conf.Recorded, common.PluralizeResults(conf.Recorded))
	}
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", message.Chat.ID).Error("Ошибка отправки сообщения")
	}
}
