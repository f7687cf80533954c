package bot

import (
	"slices"
	"testing"

	"serotonyl.ru/poker-bot/internal/bot/filters"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		text      string
		wantCmd   string
		wantArgs  []string
		isCommand bool
	}{
		{"/stats", "stats", nil, true},
		{"/stats@poker_bot", "stats", nil, true},
		{"!Стата", "стата", nil, true},
		{".help me please", "help", []string{"me", "please"}, true},
		{"  /start  ", "start", nil, true},
		{"/", "", nil, false},
		{"/@bot", "", nil, false},
		{"Результаты 01.01.2025:\n@a +1", "", nil, false},
		{"просто текст", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, args, ok := p.ParseCommand(tt.text)
			if ok != tt.isCommand || cmd != tt.wantCmd || !slices.Equal(args, tt.wantArgs) {
				t.Errorf("ParseCommand(%q) = (%q, %v, %v), want (%q, %v, %v)",
					tt.text, cmd, args, ok, tt.wantCmd, tt.wantArgs, tt.isCommand)
			}
		})
	}
}

func TestStatsScope(t *testing.T) {
	if id, ok := statsScope(filters.ChatGroup, -42).Group(); !ok || id != -42 {
		t.Errorf("group chat scope = (%d, %v), want (-42, true)", id, ok)
	}
	if _, ok := statsScope(filters.ChatPrivate, 7).Group(); ok {
		t.Error("private chat must use global scope")
	}
}
