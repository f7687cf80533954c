package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"serotonyl.ru/poker-bot/internal/common"
	"serotonyl.ru/poker-bot/internal/db/memory"
	"serotonyl.ru/poker-bot/internal/features/groups"
	"serotonyl.ru/poker-bot/internal/features/reports"
	"serotonyl.ru/poker-bot/internal/features/stats"
)

type env struct {
	store   *memory.Store
	reports *reports.Service
	stats   *stats.Service
	groups  *groups.Service
}

func newEnv() *env {
	store := memory.New()
	return &env{
		store:   store,
		reports: reports.NewService(store, time.Second),
		stats:   stats.NewService(store, time.Second),
		groups:  groups.NewService(store, time.Second),
	}
}

func (e *env) report(t *testing.T, group int64, text string) {
	t.Helper()
	ps, ok, err := reports.Parse(text)
	if !ok || err != nil {
		t.Fatalf("Parse ok=%v err=%v", ok, err)
	}
	if _, err := e.reports.Ingest(context.Background(), group, "", ps, reports.Digest(text)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
}

type brief struct {
	label string
	total int64
	games int
}

func briefs(in []stats.PlayerStat) []brief {
	var out []brief
	for _, p := range in {
		out = append(out, brief{p.Label, p.NetTotal, p.Games})
	}
	return out
}

func equal(a, b []brief) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReportThenGlobalStats(t *testing.T) {
	e := newEnv()
	e.report(t, -1, "Результаты 01.01.2025:\n@a +100\n@b -100")

	got, err := e.stats.Aggregate(context.Background(), stats.Global())
	if err != nil {
		t.Fatal(err)
	}
	want := []brief{{"a", 100, 1}, {"b", -100, 1}}
	if !equal(briefs(got), want) {
		t.Errorf("global stats = %+v, want %+v", briefs(got), want)
	}
}

func TestGroupScopeExcludesOtherGroups(t *testing.T) {
	e := newEnv()
	e.report(t, -1, "Результаты 01.01.2025:\n@a +100\n@b -100")
	e.report(t, -1, "Результаты 02.01.2025:\n@a -30\n@b +30")
	e.report(t, -2, "Результаты 01.01.2025:\n@a +1000\n@c -1000")

	group1, err := e.stats.Aggregate(context.Background(), stats.ForGroup(-1))
	if err != nil {
		t.Fatal(err)
	}
	want1 := []brief{{"a", 70, 2}, {"b", -70, 2}}
	if !equal(briefs(group1), want1) {
		t.Errorf("group -1 = %+v, want %+v", briefs(group1), want1)
	}

	group2, err := e.stats.Aggregate(context.Background(), stats.ForGroup(-2))
	if err != nil {
		t.Fatal(err)
	}
	want2 := []brief{{"a", 1000, 1}, {"c", -1000, 1}}
	if !equal(briefs(group2), want2) {
		t.Errorf("group -2 = %+v, want %+v", briefs(group2), want2)
	}

	global, err := e.stats.Aggregate(context.Background(), stats.Global())
	if err != nil {
		t.Fatal(err)
	}
	wantGlobal := []brief{{"a", 1070, 3}, {"b", -70, 2}, {"c", -1000, 1}}
	if !equal(briefs(global), wantGlobal) {
		t.Errorf("global = %+v, want %+v", briefs(global), wantGlobal)
	}
}

func TestUnknownGroup(t *testing.T) {
	e := newEnv()
	e.report(t, -1, "Результаты 01.01.2025:\n@a +1")

	got, err := e.stats.Aggregate(context.Background(), stats.ForGroup(-404))
	if !errors.Is(err, common.ErrGroupNotFound) {
		t.Fatalf("err = %v, want ErrGroupNotFound", err)
	}
	if got != nil {
		t.Errorf("stats = %v, want nil", got)
	}
}

func TestRegisteredGroupWithoutReports(t *testing.T) {
	e := newEnv()
	if _, err := e.groups.OnMembershipChanged(context.Background(), -7, "Новая группа", groups.StatusMember); err != nil {
		t.Fatal(err)
	}

	got, err := e.stats.Aggregate(context.Background(), stats.ForGroup(-7))
	if err != nil {
		t.Fatalf("err = %v, want nil for a known group", err)
	}
	if len(got) != 0 {
		t.Errorf("stats = %v, want empty", got)
	}

	list, err := e.groups.List(context.Background())
	if err != nil || len(list) != 1 || list[0].Name != "Новая группа" {
		t.Errorf("List() = %+v, %v", list, err)
	}
}

func TestGroupNameKeptOnEmptyTitle(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	if _, err := e.groups.OnMembershipChanged(ctx, -7, "Покер", groups.StatusAdministrator); err != nil {
		t.Fatal(err)
	}
	e.report(t, -7, "Результаты 01.01.2025:\n@a +1")

	list, _ := e.groups.List(ctx)
	if len(list) != 1 || list[0].Name != "Покер" {
		t.Errorf("group name overwritten: %+v", list)
	}
}

func TestStatsNeverSeePartialSession(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	const sessions = 30
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < sessions; i++ {
			text := "Результаты " + common.FormatDate(base.AddDate(0, 0, i)) + ":\n@a +10\n@b -10"
			ps, _, _ := reports.Parse(text)
			if _, err := e.reports.Ingest(ctx, -1, "", ps, reports.Digest(text)); err != nil {
				t.Errorf("Ingest: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		got, err := e.stats.Aggregate(ctx, stats.Global())
		if err != nil {
			t.Fatal(err)
		}
		var sum int64
		games := map[string]int{}
		for _, p := range got {
			sum += p.NetTotal
			games[p.Label] = p.Games
		}
		if sum != 0 || games["a"] != games["b"] {
			t.Fatalf("partial session visible: %+v", got)
		}
	}
	wg.Wait()
}
