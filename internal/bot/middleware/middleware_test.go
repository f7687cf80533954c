package middleware

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow(1) || !rl.Allow(1) {
		t.Fatal("first two requests must pass")
	}
	if rl.Allow(1) {
		t.Fatal("third request inside the window must be limited")
	}
	if !rl.Allow(2) {
		t.Fatal("limit is per user")
	}

	now = now.Add(61 * time.Second)
	if !rl.Allow(1) {
		t.Fatal("request after the window must pass")
	}
}

func TestRateLimiterCloseTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Close()
	rl.Close()
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"Результаты", 4, "Резу..."},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestLogCarriesTrace(t *testing.T) {
	ctx := WithTrace(context.Background(), 42)
	entry := Log(ctx)
	if entry.Data["trace_id"] == nil || entry.Data["update_id"] != 42 {
		t.Errorf("entry fields = %v", entry.Data)
	}

	if plain := Log(context.Background()); len(plain.Data) != 0 {
		t.Errorf("plain entry has fields %v", plain.Data)
	}
}

func TestRecoverFromPanic(t *testing.T) {
	func() {
		defer RecoverFromPanic(context.Background())
		panic("boom")
	}()
}
