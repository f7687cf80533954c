// Package stats - service.go содержит алгоритм подсчёта рейтинга.
package stats

import (
	"cmp"
	"context"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/common"
)

// Reader отдаёт согласованный снимок данных в области.
// Снимок не должен видеть сессию, сохранённую наполовину.
type Reader interface {
	// ScopeRows возвращает по строке на каждый результат игрока в области
	// и одну строку с Amount == nil для игрока без результатов.
	// found == false, если область - группа, которой нет.
	ScopeRows(ctx context.Context, scope Scope) (rows []Row, found bool, err error)
}

// Service считает статистику.
type Service struct {
	reader  Reader
	timeout time.Duration
}

// NewService создаёт сервис статистики. timeout ограничивает одно чтение.
func NewService(reader Reader, timeout time.Duration) *Service {
	return &Service{reader: reader, timeout: timeout}
}

// Aggregate возвращает итоги игроков, отсортированные по сумме по убыванию.
// При равной сумме раньше идёт игрок с меньшим ID (зарегистрированный раньше).
//
// Ошибки:
//   - common.ErrGroupNotFound - группа области неизвестна
//   - *common.StorageError - сбой хранилища
//
// Пустой срез без ошибки - игроков в области нет.
func (s *Service) Aggregate(ctx context.Context, scope Scope) ([]PlayerStat, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, found, err := s.reader.ScopeRows(ctx, scope)
	if err != nil {
		return nil, common.Storage("read stats", err)
	}
	if !found {
		return nil, common.ErrGroupNotFound
	}

	out := Summarize(rows)

	groupID, grouped := scope.Group()
	log.WithFields(log.Fields{
		"component": "stats",
		"grouped":   grouped,
		"chat_id":   groupID,
		"players":   len(out),
	}).Debug("Статистика посчитана")
	return out, nil
}

// Summarize сворачивает строки снимка в итоги игроков и сортирует их.
func Summarize(rows []Row) []PlayerStat {
	if len(rows) == 0 {
		return nil
	}

	index := make(map[int64]int, len(rows))
	var out []PlayerStat
	for _, r := range rows {
		i, ok := index[r.PlayerID]
		if !ok {
			i = len(out)
			index[r.PlayerID] = i
			out = append(out, newPlayerStat(r))
		}
		if r.Amount != nil {
			out[i].NetTotal += *r.Amount
			out[i].Games++
		}
	}

	slices.SortStableFunc(out, func(a, b PlayerStat) int {
		if c := cmp.Compare(b.NetTotal, a.NetTotal); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

func newPlayerStat(r Row) PlayerStat {
	ps := PlayerStat{PlayerID: r.PlayerID}
	switch {
	case r.Username != nil && *r.Username != "":
		ps.Label = *r.Username
		ps.IsUsername = true
	case r.FullName != nil && *r.FullName != "":
		ps.Label = *r.FullName
	default:
		ps.Label = UnnamedLabel
	}
	return ps
}
