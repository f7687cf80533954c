package reports

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"serotonyl.ru/poker-bot/internal/common"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantOK  bool
		wantErr error
		want    ParsedSession
	}{
		{
			name:   "regular chat message",
			text:   "кто сегодня играет?",
			wantOK: false,
		},
		{
			name:   "header without colon",
			text:   "Результаты 01.01.2025\n@a +100",
			wantOK: false,
		},
		{
			name:   "usernames and full names",
			text:   "Результаты 26.07.2025:\n@user1 +100\n@user2 -300\nИмя Фамилия +200",
			wantOK: true,
			want: ParsedSession{
				Date: date(2025, time.July, 26),
				Entries: []Entry{
					{Identity: Username("user1"), Amount: 100},
					{Identity: Username("user2"), Amount: -300},
					{Identity: FullName("Имя Фамилия"), Amount: 200},
				},
			},
		},
		{
			name:   "unsigned amount and stray lines",
			text:   "Результаты 01.01.2025:\n\nrandomtext\n@a 100\n  \n# комментарий\nВася  -5  ",
			wantOK: true,
			want: ParsedSession{
				Date: date(2025, time.January, 1),
				Entries: []Entry{
					{Identity: Username("a"), Amount: 100},
					{Identity: FullName("Вася"), Amount: -5},
				},
			},
		},
		{
			name:   "header in the middle of a message",
			text:   "Итоги вечера\nРезультаты 02.03.2024:\n@bob +10",
			wantOK: true,
			want: ParsedSession{
				Date:    date(2024, time.March, 2),
				Entries: []Entry{{Identity: Username("bob"), Amount: 10}},
			},
		},
		{
			name:   "duplicate identities are kept",
			text:   "Результаты 01.01.2025:\n@alice +100\n@alice -50",
			wantOK: true,
			want: ParsedSession{
				Date: date(2025, time.January, 1),
				Entries: []Entry{
					{Identity: Username("alice"), Amount: 100},
					{Identity: Username("alice"), Amount: -50},
				},
			},
		},
		{
			name:   "amount must be the last token",
			text:   "Результаты 01.01.2025:\nБоб 12 +100\n@alice +100 bonus",
			wantOK: true,
			want: ParsedSession{
				Date:    date(2025, time.January, 1),
				Entries: []Entry{{Identity: FullName("Боб 12"), Amount: 100}},
			},
		},
		{
			name:   "overflowing amount is skipped",
			text:   "Результаты 01.01.2025:\n@a +99999999999999999999\n@b -1",
			wantOK: true,
			want: ParsedSession{
				Date:    date(2025, time.January, 1),
				Entries: []Entry{{Identity: Username("b"), Amount: -1}},
			},
		},
		{
			name:   "windows line endings",
			text:   "Результаты 01.01.2025:\r\n@a +1\r\n@b -1\r\n",
			wantOK: true,
			want: ParsedSession{
				Date: date(2025, time.January, 1),
				Entries: []Entry{
					{Identity: Username("a"), Amount: 1},
					{Identity: Username("b"), Amount: -1},
				},
			},
		},
		{
			name:   "header only",
			text:   "Результаты 01.01.2025:",
			wantOK: true,
			want:   ParsedSession{Date: date(2025, time.January, 1)},
		},
		{
			name:    "impossible date",
			text:    "Результаты 31.02.2025:\n@a +1",
			wantOK:  true,
			wantErr: common.ErrInvalidDateFormat,
		},
		{
			name:    "single digit day",
			text:    "Результаты 1.02.2025:\n@a +1",
			wantOK:  true,
			wantErr: common.ErrInvalidDateFormat,
		},
		{
			name:    "short year",
			text:    "Результаты 01.02.25:\n@a +1",
			wantOK:  true,
			wantErr: common.ErrInvalidDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Parse(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil || !tt.wantOK {
				return
			}
			if !got.Date.Equal(tt.want.Date) {
				t.Errorf("Date = %v, want %v", got.Date, tt.want.Date)
			}
			if !reflect.DeepEqual(got.Entries, tt.want.Entries) {
				t.Errorf("Entries = %+v, want %+v", got.Entries, tt.want.Entries)
			}
		})
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	start := date(2023, time.January, 1)
	for d := start; d.Year() < 2025; d = d.AddDate(0, 0, 1) {
		text := "Результаты " + common.FormatDate(d) + ":\n@a +1"
		ps, ok, err := Parse(text)
		if !ok || err != nil {
			t.Fatalf("Parse(%q) ok=%v err=%v", text, ok, err)
		}
		if !ps.Date.Equal(d) {
			t.Fatalf("Parse(%q).Date = %v, want %v", text, ps.Date, d)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want Identity
	}{
		{"@alice", Username("alice")},
		{"  @alice ", Username("alice")},
		{"@", FullName("@")},
		{"@alice smith", FullName("@alice smith")},
		{"Имя Фамилия", FullName("Имя Фамилия")},
	}
	for _, tt := range tests {
		if got := classify(tt.in); got != tt.want {
			t.Errorf("classify(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDigest(t *testing.T) {
	a := Digest("Результаты 01.01.2025:\n@a +1\n@b -1")
	b := Digest("  Результаты 01.01.2025:\r\n\n@a +1  \n@b -1\n")
	if a != b {
		t.Errorf("digest must ignore blank lines and surrounding spaces: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len(digest) = %d, want 64", len(a))
	}
	if a == Digest("Результаты 01.01.2025:\n@a +2\n@b -1") {
		t.Error("different reports must have different digests")
	}
}
