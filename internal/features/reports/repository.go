// Package reports - repository.go реализует единицу работы поверх PostgreSQL.
// Все запросы одного отчёта идут в одной транзакции pgx.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/poker-bot/internal/common"
	"serotonyl.ru/poker-bot/internal/db/postgres"
	"serotonyl.ru/poker-bot/internal/features/groups"
)

// sessionDateConstraint - UNIQUE (group_id, date) в game_sessions.
const sessionDateConstraint = "game_sessions_group_date_uc"

// Repository открывает транзакции для приёма отчётов.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий отчётов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// InTx выполняет fn в транзакции READ COMMITTED.
// Откат - при любой ошибке fn или панике, фиксация - одним Commit.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// После Commit откат ничего не делает
	defer tx.Rollback(ctx)

	if err := fn(ctx, &pgTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if postgres.IsUniqueViolation(err, sessionDateConstraint) {
			return common.ErrDuplicateSession
		}
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// pgTx - операции Tx поверх открытой транзакции.
type pgTx struct {
	q postgres.Querier
}

func (t *pgTx) UpsertGroup(ctx context.Context, externalID int64, name string) (int64, error) {
	g, err := groups.Upsert(ctx, t.q, externalID, name)
	if err != nil {
		return 0, err
	}
	return g.ID, nil
}

func (t *pgTx) SessionExists(ctx context.Context, groupID int64, date time.Time) (bool, error) {
	var exists bool
	err := t.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM game_sessions WHERE group_id = $1 AND date = $2)`,
		groupID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки сессии: %w", err)
	}
	return exists, nil
}

func (t *pgTx) CreateSession(ctx context.Context, groupID int64, date time.Time, digest string) (int64, error) {
	var id int64
	err := t.q.QueryRow(ctx, `
		INSERT INTO game_sessions (group_id, date, report_digest)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id
	`, groupID, date, digest).Scan(&id)
	if err != nil {
		// Параллельный приём того же отчёта успел раньше
		if postgres.IsUniqueViolation(err, sessionDateConstraint) {
			return 0, fmt.Errorf("сессия (group_id=%d): %w", groupID, common.ErrDuplicateSession)
		}
		return 0, fmt.Errorf("ошибка создания сессии: %w", err)
	}
	return id, nil
}

func (t *pgTx) PlayerByUsername(ctx context.Context, username string) (int64, bool, error) {
	return t.findPlayer(ctx, `SELECT id FROM players WHERE username = $1`, username)
}

func (t *pgTx) PlayerByFullName(ctx context.Context, fullName string) (int64, bool, error) {
	return t.findPlayer(ctx, `SELECT id FROM players WHERE username IS NULL AND full_name = $1`, fullName)
}

func (t *pgTx) findPlayer(ctx context.Context, query, key string) (int64, bool, error) {
	var id int64
	err := t.q.QueryRow(ctx, query, key).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("ошибка поиска игрока %q: %w", key, err)
	}
	return id, true, nil
}

// CreatePlayer вставляет игрока с ON CONFLICT DO NOTHING: если параллельный отчёт
// уже создал такого же, забираем его ID повторным поиском.
func (t *pgTx) CreatePlayer(ctx context.Context, identity Identity) (int64, bool, error) {
	var query string
	switch identity.Kind {
	case IdentityUsername:
		query = `
			INSERT INTO players (username) VALUES ($1)
			ON CONFLICT (username) DO NOTHING
			RETURNING id
		`
	case IdentityFullName:
		query = `
			INSERT INTO players (full_name) VALUES ($1)
			ON CONFLICT (full_name) WHERE username IS NULL DO NOTHING
			RETURNING id
		`
	default:
		return 0, false, fmt.Errorf("неизвестный тип identity: %d", identity.Kind)
	}

	var id int64
	err := t.q.QueryRow(ctx, query, identity.Value).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("ошибка создания игрока %s: %w", identity, err)
	}

	var found bool
	if identity.Kind == IdentityUsername {
		id, found, err = t.PlayerByUsername(ctx, identity.Value)
	} else {
		id, found, err = t.PlayerByFullName(ctx, identity.Value)
	}
	if err != nil {
		return 0, false, err
	}
	if !found {
		return 0, false, fmt.Errorf("игрок %s не найден после конфликта вставки", identity)
	}
	return id, false, nil
}

func (t *pgTx) EnsureGroupPlayer(ctx context.Context, groupID, playerID int64) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO group_players (group_id, player_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, player_id) DO NOTHING
	`, groupID, playerID)
	if err != nil {
		return fmt.Errorf("ошибка привязки игрока к группе: %w", err)
	}
	return nil
}

func (t *pgTx) AddResult(ctx context.Context, sessionID, playerID, amount int64) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO player_results (session_id, player_id, amount)
		VALUES ($1, $2, $3)
	`, sessionID, playerID, amount)
	if err != nil {
		return fmt.Errorf("ошибка записи результата: %w", err)
	}
	return nil
}
