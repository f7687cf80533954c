// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает рассылку дайджеста: рейтинг игроков в каждую известную группу.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/common"
	"serotonyl.ru/poker-bot/internal/features/groups"
	"serotonyl.ru/poker-bot/internal/features/stats"
)

// GroupLister отдаёт список групп для рассылки.
type GroupLister interface {
	List(ctx context.Context) ([]*groups.Group, error)
}

// Aggregator считает статистику по области.
type Aggregator interface {
	Aggregate(ctx context.Context, scope stats.Scope) ([]stats.PlayerStat, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	groups   GroupLister
	stats    Aggregator
	sendFunc func(chatID int64, text string)
}

// NewScheduler создаёт планировщик дайджеста. spec - cron-выражение, loc - часовой пояс.
func NewScheduler(spec string, loc *time.Location, groups GroupLister, stats Aggregator, sendFunc func(chatID int64, text string)) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     spec,
		groups:   groups,
		stats:    stats,
		sendFunc: sendFunc,
	}
}

// Start регистрирует задачу и запускает cron.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		log.Info("[CRON] Рассылка дайджеста")
		sent, err := s.RunDigest(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка рассылки дайджеста")
			return
		}
		log.WithField("groups", sent).Info("[CRON] Дайджест разослан")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.WithFields(log.Fields{
		"spec":     s.spec,
		"location": s.cron.Location().String(),
	}).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенной задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// RunDigest отправляет рейтинг в каждую группу, где есть хотя бы один игрок.
// Ошибка одной группы не останавливает рассылку остальным. Возвращает число отправленных сообщений.
func (s *Scheduler) RunDigest(ctx context.Context) (int, error) {
	list, err := s.groups.List(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, g := range list {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		logger := log.WithField("chat_id", g.ExternalID)
		ranking, err := s.stats.Aggregate(ctx, stats.ForGroup(g.ExternalID))
		switch {
		case errors.Is(err, common.ErrGroupNotFound):
			continue
		case err != nil:
			logger.WithError(err).Warn("Не удалось посчитать статистику группы")
			continue
		case len(ranking) == 0:
			logger.Debug("В группе нет данных, дайджест пропущен")
			continue
		}

		s.sendFunc(g.ExternalID, "📊 Итоги:\n"+stats.FormatRanking(ranking))
		sent++
	}
	return sent, nil
}
