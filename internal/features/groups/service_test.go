package groups

import (
	"context"
	"errors"
	"testing"
	"time"

	"serotonyl.ru/poker-bot/internal/common"
)

type fakeStore struct {
	upserts []string
	err     error
}

func (f *fakeStore) UpsertGroup(ctx context.Context, externalID int64, name string) (*Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserts = append(f.upserts, name)
	return &Group{ID: int64(len(f.upserts)), ExternalID: externalID, Name: name}, nil
}

func (f *fakeStore) ListGroups(ctx context.Context) ([]*Group, error) {
	return nil, f.err
}

func TestOnMembershipChanged(t *testing.T) {
	tests := []struct {
		status string
		upsert bool
	}{
		{StatusMember, true},
		{StatusAdministrator, true},
		{"left", false},
		{"kicked", false},
		{"restricted", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewService(store, time.Second)

			changed, err := svc.OnMembershipChanged(context.Background(), -1, "Покер", tt.status)
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if changed != tt.upsert || (len(store.upserts) == 1) != tt.upsert {
				t.Errorf("changed = %v, upserts = %v, want upsert %v", changed, store.upserts, tt.upsert)
			}
		})
	}
}

func TestOnMembershipChangedStorageError(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("timeout")}, time.Second)

	_, err := svc.OnMembershipChanged(context.Background(), -1, "Покер", StatusMember)
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}

	if _, err := svc.List(context.Background()); !errors.Is(err, common.ErrStorage) {
		t.Fatalf("List err = %v, want ErrStorage", err)
	}
}
