// Package bot содержит главный модуль бота: polling, маршрутизацию апдейтов и остановку.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/poker-bot/internal/bot/filters"
	"serotonyl.ru/poker-bot/internal/bot/middleware"
	"serotonyl.ru/poker-bot/internal/config"
	"serotonyl.ru/poker-bot/internal/features/groups"
	"serotonyl.ru/poker-bot/internal/features/reports"
	"serotonyl.ru/poker-bot/internal/features/stats"
)

// Bot - главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	rateLimiter *middleware.RateLimiter

	groupHandler  *groups.Handler
	reportHandler *reports.Handler
	statsHandler  *stats.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	groupHandler *groups.Handler,
	reportHandler *reports.Handler,
	statsHandler *stats.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:           api,
		cfg:           cfg,
		rateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		groupHandler:  groupHandler,
		reportHandler: reportHandler,
		statsHandler:  statsHandler,
		parser:        NewCommandParser(),
		inflight:      make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram. Блокирует до отмены ctx.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds
	u.AllowedUpdates = []string{"message", "my_chat_member"}

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// Close освобождает ресурсы бота.
func (b *Bot) Close() {
	b.rateLimiter.Close()
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	ctx = middleware.WithTrace(ctx, update.UpdateID)
	defer middleware.RecoverFromPanic(ctx)

	// Бота добавили в чат / удалили / сменили права
	if update.MyChatMember != nil {
		b.groupHandler.HandleMyChatMember(ctx, update.MyChatMember)
		return
	}

	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	kind := filters.Classify(message)
	if kind == filters.ChatIgnored {
		return
	}

	middleware.LogMessage(ctx, message)

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		// Отчёты принимаем только из групп; в личке обычный текст игнорируем
		if kind == filters.ChatGroup {
			b.reportHandler.HandleMessage(ctx, message)
		}
		return
	}

	// Rate limiting
	if !b.rateLimiter.Allow(message.From.ID) {
		middleware.Log(ctx).WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	middleware.Log(ctx).WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")
	b.routeCommand(ctx, message.Chat.ID, kind, cmd)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, chatID int64, kind filters.ChatKind, cmd string) {
	switch cmd {
	case "start", "help":
		b.SendMessage(chatID, reports.UsageText)

	case "stats", "стата":
		b.statsHandler.HandleStats(ctx, chatID, statsScope(kind, chatID))
	}
}

// statsScope: в группе - статистика этой группы, в личке - по всем данным.
func statsScope(kind filters.ChatKind, chatID int64) stats.Scope {
	if kind == filters.ChatGroup {
		return stats.ForGroup(chatID)
	}
	return stats.Global()
}

// SendMessage отправляет сообщение в чат (для команд и рассылки дайджеста).
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// CommandParser парсит команды с префиксами /, ! и .
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс @botname (как в "/stats@poker_bot") отбрасывается.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command, _, _ := strings.Cut(parts[0], "@")
	command = strings.ToLower(command)
	if command == "" {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
