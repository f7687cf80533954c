// Package reports принимает отчёты об игре: разбирает текст сообщения
// и атомарно сохраняет сессию с результатами игроков.
// models.go описывает разобранный отчёт и записи в БД.
package reports

import "time"

// IdentityKind - по какому ключу ищется игрок.
type IdentityKind int

const (
	// IdentityUsername - Telegram @username (хранится без @).
	IdentityUsername IdentityKind = iota + 1
	// IdentityFullName - произвольное имя, как его написали в отчёте.
	IdentityFullName
)

// Identity - ключ игрока: либо username, либо полное имя.
type Identity struct {
	Kind  IdentityKind
	Value string
}

// Username создаёт identity по username (без @).
func Username(v string) Identity { return Identity{Kind: IdentityUsername, Value: v} }

// FullName создаёт identity по полному имени.
func FullName(v string) Identity { return Identity{Kind: IdentityFullName, Value: v} }

// String возвращает identity так, как её пишут в чате.
func (i Identity) String() string {
	if i.Kind == IdentityUsername {
		return "@" + i.Value
	}
	return i.Value
}

// Entry - одна строка отчёта: игрок и его результат за вечер.
type Entry struct {
	Identity Identity
	Amount   int64
}

// ParsedSession - разобранный отчёт. Записи идут в порядке строк отчёта,
// повторы одного игрока не схлопываются.
type ParsedSession struct {
	Date    time.Time
	Entries []Entry
}

// Confirmation - итог успешного приёма отчёта.
type Confirmation struct {
	SessionID  int64
	Date       time.Time
	Recorded   int // Сколько результатов записано
	NewPlayers int // Сколько игроков создано впервые
}

// GameSession - сессия (один вечер) в группе. Уникальна по (group_id, date).
type GameSession struct {
	ID           int64     `db:"id"`
	GroupID      int64     `db:"group_id"`
	Date         time.Time `db:"date"`
	ReportDigest string    `db:"report_digest"`
	CreatedAt    time.Time `db:"created_at"`
}

// PlayerResult - результат игрока в одной сессии.
type PlayerResult struct {
	ID        int64 `db:"id"`
	SessionID int64 `db:"session_id"`
	PlayerID  int64 `db:"player_id"`
	Amount    int64 `db:"amount"`
}
