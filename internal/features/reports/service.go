// Package reports - service.go сохраняет разобранный отчёт.
//
// Вся работа одного отчёта идёт в одной единице работы (Store.InTx): либо сессия
// сохраняется вместе со всеми результатами, либо не сохраняется ничего.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/common"
)

// Tx - операции хранилища внутри одной единицы работы.
type Tx interface {
	// UpsertGroup создаёт группу или обновляет её название, возвращает ID группы.
	UpsertGroup(ctx context.Context, externalID int64, name string) (int64, error)
	SessionExists(ctx context.Context, groupID int64, date time.Time) (bool, error)
	// CreateSession возвращает ошибку, для которой errors.Is(err, common.ErrDuplicateSession),
	// если сессия за эту дату уже есть.
	CreateSession(ctx context.Context, groupID int64, date time.Time, digest string) (int64, error)
	PlayerByUsername(ctx context.Context, username string) (id int64, found bool, err error)
	PlayerByFullName(ctx context.Context, fullName string) (id int64, found bool, err error)
	// CreatePlayer создаёт игрока; если такой уже есть (гонка) - возвращает существующего.
	CreatePlayer(ctx context.Context, identity Identity) (id int64, created bool, err error)
	EnsureGroupPlayer(ctx context.Context, groupID, playerID int64) error
	AddResult(ctx context.Context, sessionID, playerID, amount int64) error
}

// Store открывает единицу работы. fn выполняется внутри транзакции;
// если fn вернула ошибку - всё откатывается, иначе фиксируется одним шагом.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Service принимает отчёты.
type Service struct {
	store   Store
	timeout time.Duration
}

// NewService создаёт сервис приёма отчётов. timeout ограничивает один приём целиком.
func NewService(store Store, timeout time.Duration) *Service {
	return &Service{store: store, timeout: timeout}
}

// Ingest сохраняет отчёт группы.
//
// Алгоритм:
//  1. Находим или создаём группу, обновляем название
//  2. Если сессия за эту дату уже есть - common.ErrDuplicateSession, ничего не пишем
//  3. Создаём сессию
//  4. Для каждой записи по порядку: игрок (создаём при отсутствии), связь с группой, результат
//  5. Фиксируем всё разом
//
// Сбой хранилища возвращается как *common.StorageError.
func (s *Service) Ingest(ctx context.Context, groupExternalID int64, groupName string, ps ParsedSession, digest string) (*Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := log.WithFields(log.Fields{
		"component": "reports",
		"chat_id":   groupExternalID,
		"date":      common.FormatDate(ps.Date),
		"entries":   len(ps.Entries),
	})

	var conf *Confirmation
	err := s.store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		c := &Confirmation{Date: ps.Date}

		groupID, err := tx.UpsertGroup(ctx, groupExternalID, groupName)
		if err != nil {
			return common.Storage("upsert group", err)
		}

		exists, err := tx.SessionExists(ctx, groupID, ps.Date)
		if err != nil {
			return common.Storage("check session", err)
		}
		if exists {
			return common.ErrDuplicateSession
		}

		c.SessionID, err = tx.CreateSession(ctx, groupID, ps.Date, digest)
		if err != nil {
			return common.Storage("create session", err)
		}

		for i, entry := range ps.Entries {
			playerID, created, err := resolvePlayer(ctx, tx, entry.Identity)
			if err != nil {
				return common.Storage(fmt.Sprintf("resolve player %d", i+1), err)
			}
			if created {
				c.NewPlayers++
			}
			if err := tx.EnsureGroupPlayer(ctx, groupID, playerID); err != nil {
				return common.Storage("link player to group", err)
			}
			if err := tx.AddResult(ctx, c.SessionID, playerID, entry.Amount); err != nil {
				return common.Storage("add result", err)
			}
			c.Recorded++
		}

		conf = c
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateSession) {
			logger.WithField("digest", digest).Info("Сессия за эту дату уже сохранена")
			return nil, common.ErrDuplicateSession
		}
		logger.WithError(err).Error("Ошибка сохранения отчёта")
		return nil, common.Storage("ingest report", err)
	}

	logger.WithFields(log.Fields{
		"session_id":  conf.SessionID,
		"recorded":    conf.Recorded,
		"new_players": conf.NewPlayers,
	}).Info("Отчёт сохранён")
	return conf, nil
}

// resolvePlayer - единственное место, где выбирается способ поиска игрока.
func resolvePlayer(ctx context.Context, tx Tx, identity Identity) (int64, bool, error) {
	var (
		id    int64
		found bool
		err   error
	)
	switch identity.Kind {
	case IdentityUsername:
		id, found, err = tx.PlayerByUsername(ctx, identity.Value)
	case IdentityFullName:
		id, found, err = tx.PlayerByFullName(ctx, identity.Value)
	default:
		return 0, false, fmt.Errorf("неизвестный тип identity: %d", identity.Kind)
	}
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}
	return tx.CreatePlayer(ctx, identity)
}
