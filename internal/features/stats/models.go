// Package stats считает итоги игроков: сумму выигрышей и число игр.
// models.go описывает область подсчёта и строки результата.
package stats

// UnnamedLabel - подпись игрока без username и имени.
const UnnamedLabel = "Без имени"

// Scope - по каким данным считать: по всем или по одной группе.
type Scope struct {
	groupExternalID int64
	grouped         bool
}

// Global - все игроки и все результаты, независимо от группы.
func Global() Scope { return Scope{} }

// ForGroup - только игроки, привязанные к группе, и только результаты её сессий.
func ForGroup(externalID int64) Scope {
	return Scope{groupExternalID: externalID, grouped: true}
}

// Group возвращает Telegram chat ID группы и false для глобальной области.
func (s Scope) Group() (int64, bool) {
	return s.groupExternalID, s.grouped
}

// Row - строка снимка: игрок и одна его сумма (nil, если результатов в области нет).
type Row struct {
	PlayerID int64
	Username *string
	FullName *string
	Amount   *int64
}

// PlayerStat - итог одного игрока.
type PlayerStat struct {
	PlayerID   int64
	Label      string // username, иначе имя, иначе UnnamedLabel
	IsUsername bool   // Label - это username (в ответе пишется с @)
	NetTotal   int64  // Сумма выигрышей/проигрышей
	Games      int    // Сколько результатов учтено
}

// DisplayName возвращает подпись игрока для чата.
func (p PlayerStat) DisplayName() string {
	if p.IsUsername {
		return "@" + p.Label
	}
	return p.Label
}
