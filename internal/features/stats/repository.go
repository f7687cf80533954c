// Package stats - repository.go читает снимок результатов из PostgreSQL.
package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository читает данные для статистики.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий статистики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const globalRowsQuery = `
	SELECT p.id, p.username, p.full_name, r.amount
	FROM players p
	LEFT JOIN player_results r ON r.player_id = p.id
	ORDER BY p.id, r.id
`

// Игроки группы и только те их результаты, чьи сессии принадлежат этой группе.
const groupRowsQuery = `
	SELECT p.id, p.username, p.full_name, r.amount
	FROM group_players gp
	JOIN players p ON p.id = gp.player_id
	LEFT JOIN (
		player_results r
		JOIN game_sessions s ON s.id = r.session_id AND s.group_id = $1
	) ON r.player_id = p.id
	WHERE gp.group_id = $1
	ORDER BY p.id, r.id
`

// ScopeRows читает снимок в read-only транзакции REPEATABLE READ:
// поиск группы и выборка видят одно и то же состояние БД.
func (r *Repository) ScopeRows(ctx context.Context, scope Scope) ([]Row, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query, args := globalRowsQuery, []any(nil)
	if externalID, grouped := scope.Group(); grouped {
		var groupID int64
		err := tx.QueryRow(ctx, `SELECT id FROM groups WHERE tg_id = $1`, externalID).Scan(&groupID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, false, nil
			}
			return nil, false, fmt.Errorf("ошибка поиска группы (tg_id=%d): %w", externalID, err)
		}
		query, args = groupRowsQuery, []any{groupID}
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка запроса статистики: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.PlayerID, &row.Username, &row.FullName, &row.Amount); err != nil {
			return nil, false, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("ошибка чтения строк: %w", err)
	}

	return out, true, tx.Commit(ctx)
}
