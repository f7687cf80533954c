// Package app инициализирует все компоненты приложения.
// app.go - точка сборки: выбирает хранилище, создаёт репозитории, сервисы,
// обработчики и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/bot"
	"serotonyl.ru/poker-bot/internal/config"
	"serotonyl.ru/poker-bot/internal/db/memory"
	"serotonyl.ru/poker-bot/internal/db/postgres"
	"serotonyl.ru/poker-bot/internal/features/groups"
	"serotonyl.ru/poker-bot/internal/features/reports"
	"serotonyl.ru/poker-bot/internal/features/stats"
	"serotonyl.ru/poker-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler // nil, если дайджест выключен
	DB        *pgxpool.Pool   // nil для DB_DRIVER=memory
	BotAPI    *tgbotapi.BotAPI
}

// stores - реализации хранилища для сервисов.
type stores struct {
	groups  groups.Store
	reports reports.Store
	stats   stats.Reader
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен - компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	st, pool, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Сервисы ===
	groupService := groups.NewService(st.groups, cfg.DBQueryTimeout)
	reportService := reports.NewService(st.reports, cfg.DBQueryTimeout)
	statsService := stats.NewService(st.stats, cfg.DBQueryTimeout)

	// === 4. Обработчики ===
	groupHandler := groups.NewHandler(groupService)
	reportHandler := reports.NewHandler(reportService, botAPI)
	statsHandler := stats.NewHandler(statsService, botAPI)

	// === 5. Собираем бота ===
	b := bot.New(botAPI, cfg, groupHandler, reportHandler, statsHandler)

	// === 6. Планировщик задач ===
	var scheduler *jobs.Scheduler
	if cfg.FeatureDigestEnabled {
		scheduler = jobs.NewScheduler(cfg.DigestCron, cfg.Location(), groupService, statsService, b.SendMessage)
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// Close освобождает ресурсы: лимитер бота и пул соединений.
func (a *App) Close() {
	a.Bot.Close()
	if a.DB != nil {
		a.DB.Close()
	}
}

// openStores выбирает хранилище по DB_DRIVER.
func openStores(ctx context.Context, cfg *config.Config) (stores, *pgxpool.Pool, error) {
	if cfg.DBDriver == config.DriverMemory {
		log.Warn("DB_DRIVER=memory: данные не переживут перезапуск")
		m := memory.New()
		return stores{groups: m, reports: m, stats: m}, nil, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return stores{}, nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := postgres.RunMigrations(ctx, pool, migrations); err != nil {
		pool.Close()
		return stores{}, nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	return stores{
		groups:  groups.NewRepository(pool),
		reports: reports.NewRepository(pool),
		stats:   stats.NewRepository(pool),
	}, pool, nil
}
