package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"serotonyl.ru/poker-bot/internal/common"
	"serotonyl.ru/poker-bot/internal/features/groups"
	"serotonyl.ru/poker-bot/internal/features/stats"
)

type fakeGroups struct {
	list []*groups.Group
	err  error
}

func (f *fakeGroups) List(ctx context.Context) ([]*groups.Group, error) {
	return f.list, f.err
}

type fakeStats map[int64][]stats.PlayerStat

func (f fakeStats) Aggregate(ctx context.Context, scope stats.Scope) ([]stats.PlayerStat, error) {
	id, _ := scope.Group()
	if id == -500 {
		return nil, errors.New("connection reset")
	}
	rows, ok := f[id]
	if !ok {
		return nil, common.ErrGroupNotFound
	}
	return rows, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

func TestRunDigest(t *testing.T) {
	gl := &fakeGroups{list: []*groups.Group{
		{ID: 1, ExternalID: -1},
		{ID: 2, ExternalID: -2},   // зарегистрирована, но без отчётов
		{ID: 3, ExternalID: -3},   // неизвестна статистике
		{ID: 4, ExternalID: -500}, // ошибка хранилища
		{ID: 5, ExternalID: -5},
	}}
	st := fakeStats{
		-1: {{PlayerID: 1, Label: "alice", IsUsername: true, NetTotal: 100, Games: 1}},
		-2: nil,
		-5: {{PlayerID: 2, Label: "Иван", NetTotal: -5, Games: 2}},
	}

	var sent []sentMessage
	s := NewScheduler("@monthly", time.UTC, gl, st, func(chatID int64, text string) {
		sent = append(sent, sentMessage{chatID, text})
	})

	n, err := s.RunDigest(context.Background())
	if err != nil {
		t.Fatalf("RunDigest() error = %v", err)
	}
	if n != 2 || len(sent) != 2 {
		t.Fatalf("sent %d messages (%v), want 2", n, sent)
	}
	if sent[0].chatID != -1 || !strings.Contains(sent[0].text, "1. @alice +100 (1 игра)") {
		t.Errorf("first message = %+v", sent[0])
	}
	if sent[1].chatID != -5 || !strings.Contains(sent[1].text, "1. Иван -5 (2 игры)") {
		t.Errorf("second message = %+v", sent[1])
	}
}

func TestRunDigestListError(t *testing.T) {
	s := NewScheduler("@monthly", time.UTC, &fakeGroups{err: errors.New("db down")}, fakeStats{}, func(int64, string) {
		t.Error("nothing must be sent")
	})
	if _, err := s.RunDigest(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler("not a cron", time.UTC, &fakeGroups{}, fakeStats{}, func(int64, string) {})
	if err := s.Start(context.Background()); err == nil {
		s.Stop()
		t.Fatal("expected error for invalid cron spec")
	}
}
