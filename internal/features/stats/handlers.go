// Package stats - handlers.go обрабатывает команду /stats.
package stats

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/bot/middleware"
	"serotonyl.ru/poker-bot/internal/common"
)

// Handler отвечает на запросы статистики.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик статистики.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleStats - команда /stats. В группе считает по группе, в личке - по всем данным.
func (h *Handler) HandleStats(ctx context.Context, chatID int64, scope Scope) {
	h.sendMessage(chatID, h.Render(ctx, scope))
}

// Render возвращает готовый текст статистики для области.
func (h *Handler) Render(ctx context.Context, scope Scope) string {
	stats, err := h.service.Aggregate(ctx, scope)
	switch {
	case errors.Is(err, common.ErrGroupNotFound):
		return "📊 Эта группа ещё не присылала отчётов."
	case err != nil:
		middleware.Log(ctx).WithError(err).Error("Ошибка получения статистики")
		return "❌ Ошибка получения статистики"
	}
	return "📊 Статистика игроков:\n" + FormatRanking(stats)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
