// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование сумм и дат.
package common

import (
	"fmt"
	"time"
)

// DateLayout - формат даты в отчётах и ответах бота (день.месяц.год).
const DateLayout = "02.01.2006"

// pluralForm выбирает форму слова по правилам русского языка:
//   - n%10==1 И n%100!=11 → one (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → few (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → many (0, 5-20, 25-30, 100, ...)
func pluralForm(n int64, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwoDigits := n % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return one
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return few
	}
	return many
}

// PluralizeGames возвращает правильную форму слова «игра» для числа n.
//
// Примеры:
//
//	PluralizeGames(1)  → "игра"
//	PluralizeGames(3)  → "игры"
//	PluralizeGames(11) → "игр"
func PluralizeGames(n int) string {
	return pluralForm(int64(n), "игра", "игры", "игр")
}

// PluralizeResults возвращает правильную форму слова «результат».
func PluralizeResults(n int) string {
	return pluralForm(int64(n), "результат", "результата", "результатов")
}

// FormatDate форматирует дату сессии как "02.01.2006".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatAmount создаёт строку вида "+100" или "-50". Ноль выводится как "+0".
func FormatAmount(amount int64) string {
	return fmt.Sprintf("%+d", amount)
}
