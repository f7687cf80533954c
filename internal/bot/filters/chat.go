// Package filters решает, как бот относится к чату, из которого пришло сообщение.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatKind - тип чата с точки зрения бота.
type ChatKind int

const (
	// ChatIgnored - каналы и служебные сообщения без чата/отправителя.
	ChatIgnored ChatKind = iota
	// ChatGroup - группа или супергруппа: принимаем отчёты, статистика по группе.
	ChatGroup
	// ChatPrivate - личка: только команды, статистика по всем группам.
	ChatPrivate
)

func (k ChatKind) String() string {
	switch k {
	case ChatGroup:
		return "group"
	case ChatPrivate:
		return "private"
	default:
		return "ignored"
	}
}

// Classify определяет тип чата сообщения.
func Classify(message *tgbotapi.Message) ChatKind {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return ChatIgnored
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Debug("nil message.From (service/channel message?)")
		return ChatIgnored
	}

	switch {
	case message.Chat.IsGroup(), message.Chat.IsSuperGroup():
		return ChatGroup
	case message.Chat.IsPrivate():
		return ChatPrivate
	default:
		return ChatIgnored
	}
}
