package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// RecoverFromPanic гасит панику обработчика апдейта. Вызывать через defer.
func RecoverFromPanic(ctx context.Context) {
	if r := recover(); r != nil {
		Log(ctx).WithFields(log.Fields{
			"component": "panic_recovery",
			"panic":     fmt.Sprintf("%v", r),
			"stack":     string(debug.Stack()),
		}).Error("ПАНИКА в обработчике — восстановлено")
	}
}
