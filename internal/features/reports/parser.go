// Package reports - parser.go разбирает текст отчёта.
//
// Формат:
//
//	Результаты 26.07.2025:
//	@user1 +100
//	@user2 -300
//	Имя Фамилия +200
package reports

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"serotonyl.ru/poker-bot/internal/common"
)

var (
	// Дата нарочно шире, чем ДД.ММ.ГГГГ: "1.1.2025" - это отчёт с кривой датой, а не чужое сообщение.
	headerRe = regexp.MustCompile(`Результаты[ \t]+(\d{1,2}\.\d{1,2}\.\d{2,4}):`)
	// Сумма - последний токен строки, имя - всё до неё.
	entryRe = regexp.MustCompile(`^(\S.*?)\s+([+-]?\d+)$`)
)

// Parse разбирает отчёт.
//
// Возвращает ok=false без ошибки, если в тексте нет заголовка - это обычное
// сообщение чата. Если заголовок есть, но дата некорректна - common.ErrInvalidDateFormat.
// Строки, не похожие на "имя сумма", пропускаются.
func Parse(text string) (ParsedSession, bool, error) {
	loc := headerRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return ParsedSession{}, false, nil
	}

	date, err := time.Parse(common.DateLayout, text[loc[2]:loc[3]])
	if err != nil {
		return ParsedSession{}, true, common.ErrInvalidDateFormat
	}

	// Записи начинаются со следующей строки после заголовка
	rest := text[loc[1]:]
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}

	ps := ParsedSession{Date: date}
	for _, line := range strings.Split(rest, "\n") {
		entry, ok := parseEntry(line)
		if !ok {
			continue
		}
		ps.Entries = append(ps.Entries, entry)
	}
	return ps, true, nil
}

func parseEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Entry{}, false
	}

	m := entryRe.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	amount, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		// переполнение int64
		return Entry{}, false
	}

	return Entry{Identity: classify(m[1]), Amount: amount}, true
}

// classify: "@nick" - username, всё остальное - полное имя.
func classify(name string) Identity {
	name = strings.TrimSpace(name)
	if len(name) > 1 && strings.HasPrefix(name, "@") && !strings.ContainsAny(name, " \t") {
		return Username(strings.TrimPrefix(name, "@"))
	}
	return FullName(name)
}
