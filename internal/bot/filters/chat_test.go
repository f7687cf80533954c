package filters

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestClassify(t *testing.T) {
	user := &tgbotapi.User{ID: 1}

	tests := []struct {
		name    string
		message *tgbotapi.Message
		want    ChatKind
	}{
		{"nil message", nil, ChatIgnored},
		{"nil chat", &tgbotapi.Message{From: user}, ChatIgnored},
		{"no sender", &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -1, Type: "group"}}, ChatIgnored},
		{"group", &tgbotapi.Message{From: user, Chat: &tgbotapi.Chat{ID: -1, Type: "group"}}, ChatGroup},
		{"supergroup", &tgbotapi.Message{From: user, Chat: &tgbotapi.Chat{ID: -100, Type: "supergroup"}}, ChatGroup},
		{"private", &tgbotapi.Message{From: user, Chat: &tgbotapi.Chat{ID: 1, Type: "private"}}, ChatPrivate},
		{"channel", &tgbotapi.Message{From: user, Chat: &tgbotapi.Chat{ID: -2, Type: "channel"}}, ChatIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.message); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
