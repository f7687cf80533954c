// Package groups ведёт реестр чатов, в которых работает бот.
// models.go описывает структуру записи в таблице groups.
package groups

import "time"

// Group - групповой чат Telegram, известный боту.
type Group struct {
	ID         int64     `db:"id"`         // Автоинкрементный ID записи в БД
	ExternalID int64     `db:"tg_id"`      // Telegram chat ID (уникальный)
	Name       string    `db:"name"`       // Название чата (может быть пустым)
	CreatedAt  time.Time `db:"created_at"` // Когда бот впервые увидел чат
	UpdatedAt  time.Time `db:"updated_at"` // Последнее обновление названия
}

// Статусы бота в чате, при которых группа регистрируется.
const (
	StatusMember        = "member"
	StatusAdministrator = "administrator"
)
