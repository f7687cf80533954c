// Package common - pluralize.go содержит форматирование крупных чисел.
package common

import (
	"fmt"
	"math"
)

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	if n == math.MinInt64 {
		return fmt.Sprintf("%d", n)
	}
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s %03d", FormatNumber(n/1000), n%1000)
}

// FormatSignedNumber - как FormatNumber, но всегда со знаком: "+2 350", "-15", "+0".
func FormatSignedNumber(n int64) string {
	if n < 0 {
		return FormatNumber(n)
	}
	return "+" + FormatNumber(n)
}
