// Package memory - хранилище в памяти процесса с теми же контрактами, что и PostgreSQL.
// Подходит для локального запуска без БД (DB_DRIVER=memory) и для тестов.
// Данные живут до перезапуска.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"serotonyl.ru/poker-bot/internal/common"
	"serotonyl.ru/poker-bot/internal/features/groups"
	"serotonyl.ru/poker-bot/internal/features/reports"
	"serotonyl.ru/poker-bot/internal/features/stats"
)

type player struct {
	id       int64
	username string
	fullName string
}

type sessionKey struct {
	groupID int64
	date    time.Time
}

type linkKey struct {
	groupID, playerID int64
}

// state - все таблицы. Единица работы меняет копию и подменяет её целиком.
type state struct {
	nextID int64

	groups       map[int64]*groups.Group // по tg_id
	players      []player
	groupPlayers map[linkKey]struct{}
	sessions     map[sessionKey]reports.GameSession
	sessionByID  map[int64]reports.GameSession
	results      []reports.PlayerResult
}

func newState() *state {
	return &state{
		groups:       make(map[int64]*groups.Group),
		groupPlayers: make(map[linkKey]struct{}),
		sessions:     make(map[sessionKey]reports.GameSession),
		sessionByID:  make(map[int64]reports.GameSession),
	}
}

func (s *state) clone() *state {
	c := &state{
		nextID:       s.nextID,
		groups:       make(map[int64]*groups.Group, len(s.groups)),
		players:      slices.Clone(s.players),
		groupPlayers: maps.Clone(s.groupPlayers),
		sessions:     maps.Clone(s.sessions),
		sessionByID:  maps.Clone(s.sessionByID),
		results:      slices.Clone(s.results),
	}
	for k, g := range s.groups {
		cp := *g
		c.groups[k] = &cp
	}
	return c
}

func (s *state) newID() int64 {
	s.nextID++
	return s.nextID
}

// Store - хранилище в памяти. Единицы работы выполняются строго по одной,
// чтения идут параллельно с ними и видят только зафиксированное состояние.
type Store struct {
	mu    sync.Mutex   // сериализует InTx
	snap  sync.RWMutex // защищает указатель data
	data  *state
	clock func() time.Time
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{data: newState(), clock: time.Now}
}

func (s *Store) current() *state {
	s.snap.RLock()
	defer s.snap.RUnlock()
	return s.data
}

// InTx реализует reports.Store.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx reports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.current().clone()
	if err := fn(ctx, &memTx{st: work, now: s.clock}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("транзакция не зафиксирована: %w", err)
	}

	s.snap.Lock()
	s.data = work
	s.snap.Unlock()
	return nil
}

// UpsertGroup реализует groups.Store.
func (s *Store) UpsertGroup(ctx context.Context, externalID int64, name string) (*groups.Group, error) {
	var out groups.Group
	err := s.InTx(ctx, func(ctx context.Context, tx reports.Tx) error {
		g := tx.(*memTx).upsertGroup(externalID, name)
		out = *g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGroups реализует groups.Store.
func (s *Store) ListGroups(ctx context.Context) ([]*groups.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st := s.current()
	out := make([]*groups.Group, 0, len(st.groups))
	for _, g := range st.groups {
		cp := *g
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *groups.Group) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// ScopeRows реализует stats.Reader.
func (s *Store) ScopeRows(ctx context.Context, scope stats.Scope) ([]stats.Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	st := s.current()

	externalID, grouped := scope.Group()
	var groupID int64
	if grouped {
		g, ok := st.groups[externalID]
		if !ok {
			return nil, false, nil
		}
		groupID = g.ID
	}

	var out []stats.Row
	for _, p := range st.players {
		if grouped {
			if _, linked := st.groupPlayers[linkKey{groupID, p.id}]; !linked {
				continue
			}
		}

		hasResults := false
		for _, r := range st.results {
			if r.PlayerID != p.id {
				continue
			}
			if grouped && st.sessionByID[r.SessionID].GroupID != groupID {
				continue
			}
			amount := r.Amount
			out = append(out, playerRow(p, &amount))
			hasResults = true
		}
		if !hasResults {
			out = append(out, playerRow(p, nil))
		}
	}
	return out, true, nil
}

func playerRow(p player, amount *int64) stats.Row {
	row := stats.Row{PlayerID: p.id, Amount: amount}
	if p.username != "" {
		u := p.username
		row.Username = &u
	}
	if p.fullName != "" {
		n := p.fullName
		row.FullName = &n
	}
	return row
}

// Sessions возвращает сохранённые сессии группы по возрастанию даты.
func (s *Store) Sessions(externalID int64) []reports.GameSession {
	st := s.current()
	g, ok := st.groups[externalID]
	if !ok {
		return nil
	}
	var out []reports.GameSession
	for _, sess := range st.sessions {
		if sess.GroupID == g.ID {
			out = append(out, sess)
		}
	}
	slices.SortFunc(out, func(a, b reports.GameSession) int { return a.Date.Compare(b.Date) })
	return out
}

// Results возвращает результаты сессии в порядке записи.
func (s *Store) Results(sessionID int64) []reports.PlayerResult {
	var out []reports.PlayerResult
	for _, r := range s.current().results {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out
}

// PlayerCount возвращает число игроков.
func (s *Store) PlayerCount() int {
	return len(s.current().players)
}

// memTx - reports.Tx поверх рабочей копии состояния.
type memTx struct {
	st  *state
	now func() time.Time
}

func (t *memTx) upsertGroup(externalID int64, name string) *groups.Group {
	now := t.now()
	g, ok := t.st.groups[externalID]
	if !ok {
		g = &groups.Group{ID: t.st.newID(), ExternalID: externalID, Name: name, CreatedAt: now, UpdatedAt: now}
		t.st.groups[externalID] = g
		return g
	}
	if name != "" && name != g.Name {
		g.Name = name
		g.UpdatedAt = now
	}
	return g
}

func (t *memTx) UpsertGroup(ctx context.Context, externalID int64, name string) (int64, error) {
	return t.upsertGroup(externalID, name).ID, nil
}

func (t *memTx) SessionExists(ctx context.Context, groupID int64, date time.Time) (bool, error) {
	_, ok := t.st.sessions[sessionKey{groupID, date}]
	return ok, nil
}

func (t *memTx) CreateSession(ctx context.Context, groupID int64, date time.Time, digest string) (int64, error) {
	key := sessionKey{groupID, date}
	if _, ok := t.st.sessions[key]; ok {
		return 0, common.ErrDuplicateSession
	}
	sess := reports.GameSession{
		ID:           t.st.newID(),
		GroupID:      groupID,
		Date:         date,
		ReportDigest: digest,
		CreatedAt:    t.now(),
	}
	t.st.sessions[key] = sess
	t.st.sessionByID[sess.ID] = sess
	return sess.ID, nil
}

func (t *memTx) PlayerByUsername(ctx context.Context, username string) (int64, bool, error) {
	for _, p := range t.st.players {
		if p.username != "" && p.username == username {
			return p.id, true, nil
		}
	}
	return 0, false, nil
}

func (t *memTx) PlayerByFullName(ctx context.Context, fullName string) (int64, bool, error) {
	for _, p := range t.st.players {
		if p.username == "" && p.fullName == fullName {
			return p.id, true, nil
		}
	}
	return 0, false, nil
}

func (t *memTx) CreatePlayer(ctx context.Context, identity reports.Identity) (int64, bool, error) {
	var p player
	switch identity.Kind {
	case reports.IdentityUsername:
		if id, ok, _ := t.PlayerByUsername(ctx, identity.Value); ok {
			return id, false, nil
		}
		p.username = identity.Value
	case reports.IdentityFullName:
		if id, ok, _ := t.PlayerByFullName(ctx, identity.Value); ok {
			return id, false, nil
		}
		p.fullName = identity.Value
	default:
		return 0, false, fmt.Errorf("неизвестный тип identity: %d", identity.Kind)
	}
	p.id = t.st.newID()
	t.st.players = append(t.st.players, p)
	return p.id, true, nil
}

func (t *memTx) EnsureGroupPlayer(ctx context.Context, groupID, playerID int64) error {
	t.st.groupPlayers[linkKey{groupID, playerID}] = struct{}{}
	return nil
}

func (t *memTx) AddResult(ctx context.Context, sessionID, playerID, amount int64) error {
	if _, ok := t.st.sessionByID[sessionID]; !ok {
		return fmt.Errorf("сессия %d не найдена", sessionID)
	}
	t.st.results = append(t.st.results, reports.PlayerResult{
		ID:        t.st.newID(),
		SessionID: sessionID,
		PlayerID:  playerID,
		Amount:    amount,
	})
	return nil
}
