// Package groups - handlers.go обрабатывает событие my_chat_member:
// бота добавили в чат, повысили до админа или удалили.
package groups

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"serotonyl.ru/poker-bot/internal/bot/middleware"
)

// Handler обрабатывает события членства бота.
type Handler struct {
	service *Service
}

// NewHandler создаёт новый обработчик событий групп.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleMyChatMember регистрирует группу, когда бота в неё добавили.
// Личные чаты и каналы игнорируются.
func (h *Handler) HandleMyChatMember(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) {
	if upd == nil {
		return
	}
	if !upd.Chat.IsGroup() && !upd.Chat.IsSuperGroup() {
		return
	}

	_, err := h.service.OnMembershipChanged(ctx, upd.Chat.ID, upd.Chat.Title, upd.NewChatMember.Status)
	if err != nil {
		middleware.Log(ctx).WithError(err).WithField("chat_id", upd.Chat.ID).Error("Ошибка регистрации группы")
	}
}
