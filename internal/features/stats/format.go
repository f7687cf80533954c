package stats

import (
	"fmt"
	"strings"

	"serotonyl.ru/poker-bot/internal/common"
)

// NoDataText - ответ, когда в области нет ни одного игрока.
const NoDataText = "Нет данных."

// FormatRanking собирает текст рейтинга:
//
//	1. @alice +1 200 (3 игры)
//	2. Имя Фамилия -50 (1 игра)
func FormatRanking(stats []PlayerStat) string {
	if len(stats) == 0 {
		return NoDataText
	}

	var sb strings.Builder
	for i, p := range stats {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s %s (%d %s)",
			i+1, p.DisplayName(), common.FormatSignedNumber(p.NetTotal),
			p.Games, common.PluralizeGames(p.Games))
	}
	return sb.String()
}
