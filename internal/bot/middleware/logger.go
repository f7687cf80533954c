// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паники и rate-limiting.
package middleware

import (
	"context"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type traceKey struct{}

// WithTrace присваивает апдейту trace id и кладёт его в контекст.
// Все записи лога по этому апдейту получают поле trace_id.
func WithTrace(ctx context.Context, updateID int) context.Context {
	entry := log.WithFields(log.Fields{
		"trace_id":  uuid.NewString(),
		"update_id": updateID,
	})
	return context.WithValue(ctx, traceKey{}, entry)
}

// Log возвращает логгер с trace id из контекста (или обычный, если его нет).
func Log(ctx context.Context) *log.Entry {
	if entry, ok := ctx.Value(traceKey{}).(*log.Entry); ok {
		return entry
	}
	return log.NewEntry(log.StandardLogger())
}

// LogMessage логирует входящее сообщение.
// Записывает: user_id, chat_id, username, текст (первые 50 символов).
func LogMessage(ctx context.Context, message *tgbotapi.Message) {
	if message == nil || message.Chat == nil {
		return
	}

	fields := log.Fields{
		"chat_id":   message.Chat.ID,
		"chat_type": message.Chat.Type,
		"text":      truncate(message.Text, 50),
	}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}
	Log(ctx).WithFields(fields).Debug("Входящее сообщение")
}

// truncate обрезает строку до n символов (не байт).
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "..."
}
