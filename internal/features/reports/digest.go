package reports

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Digest возвращает отпечаток отчёта (BLAKE2b-256, hex).
// Пустые строки и пробелы по краям строк не влияют на результат.
func Digest(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	sum := blake2b.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
