// Package groups - service.go реагирует на изменение статуса бота в чате.
package groups

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/common"
)

// Store - то, что сервису нужно от хранилища.
type Store interface {
	UpsertGroup(ctx context.Context, externalID int64, name string) (*Group, error)
	ListGroups(ctx context.Context) ([]*Group, error)
}

// Service управляет реестром групп.
type Service struct {
	store   Store
	timeout time.Duration
}

// NewService создаёт сервис групп. timeout ограничивает каждую операцию с хранилищем.
func NewService(store Store, timeout time.Duration) *Service {
	return &Service{store: store, timeout: timeout}
}

// OnMembershipChanged вызывается, когда боту меняют статус в чате.
// Группа регистрируется (или обновляется её название), только если бот стал
// участником или администратором. Возвращает true, если запись обновлена.
func (s *Service) OnMembershipChanged(ctx context.Context, externalID int64, name, status string) (bool, error) {
	logger := log.WithFields(log.Fields{
		"component": "groups",
		"chat_id":   externalID,
		"status":    status,
	})

	if status != StatusMember && status != StatusAdministrator {
		logger.Info("Бот больше не участник чата, группу не трогаем")
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, err := s.store.UpsertGroup(ctx, externalID, name)
	if err != nil {
		return false, common.Storage("upsert group", err)
	}

	logger.WithField("group_id", g.ID).Info("Группа зарегистрирована")
	return true, nil
}

// List возвращает все группы (для рассылки дайджеста).
func (s *Service) List(ctx context.Context) ([]*Group, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, common.Storage("list groups", err)
	}
	return groups, nil
}
