// Package groups - repository.go отвечает за операции с таблицей groups в БД.
package groups

import (
	"context"
	"fmt"

	"serotonyl.ru/poker-bot/internal/db/postgres"
)

// Repository работает с таблицей groups через пул или транзакцию.
type Repository struct {
	db postgres.Querier
}

// NewRepository создаёт репозиторий групп.
func NewRepository(db postgres.Querier) *Repository {
	return &Repository{db: db}
}

// UpsertGroup - см. Upsert.
func (r *Repository) UpsertGroup(ctx context.Context, externalID int64, name string) (*Group, error) {
	return Upsert(ctx, r.db, externalID, name)
}

// Upsert создаёт группу по Telegram chat ID или обновляет её название.
// Пустое название не затирает уже сохранённое.
// Вынесен отдельной функцией: приём отчёта вызывает его внутри своей транзакции.
func Upsert(ctx context.Context, q postgres.Querier, externalID int64, name string) (*Group, error) {
	query := `
		INSERT INTO groups (tg_id, name)
		VALUES ($1, NULLIF($2, ''))
		ON CONFLICT (tg_id) DO UPDATE
		SET name = COALESCE(EXCLUDED.name, groups.name),
		    updated_at = CASE
		        WHEN EXCLUDED.name IS DISTINCT FROM groups.name AND EXCLUDED.name IS NOT NULL THEN NOW()
		        ELSE groups.updated_at
		    END
		RETURNING id, tg_id, COALESCE(name, ''), created_at, updated_at
	`
	var g Group
	err := q.QueryRow(ctx, query, externalID, name).Scan(
		&g.ID, &g.ExternalID, &g.Name, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания/обновления группы (tg_id=%d): %w", externalID, err)
	}
	return &g, nil
}

// ListGroups возвращает все известные группы в порядке регистрации.
func (r *Repository) ListGroups(ctx context.Context) ([]*Group, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tg_id, COALESCE(name, ''), created_at, updated_at
		FROM groups
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса групп: %w", err)
	}
	defer rows.Close()

	var out []*Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.ExternalID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}
