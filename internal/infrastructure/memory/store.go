// Package memory is an in-process implementation of the repository interfaces,
// selected with STORE_DRIVER=memory and used by the service and router tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
)

// Store keeps every table behind one RWMutex so multi-record writes are atomic.
type Store struct {
	mu sync.RWMutex

	users     map[string]entity.User
	emails    map[string]string
	intervals map[string]entity.Intervals
	tasks     map[string]entity.Task
	blocks    map[string]entity.TimeBlock
	sessions  map[string]entity.PomodoroSession
	rounds    map[string]entity.PomodoroRound

	// insertion order, used as a tie breaker when timestamps collide
	seq   int64
	seqOf map[string]int64
	clock func() time.Time
}

type Option func(*Store)

// WithClock overrides time.Now for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.clock = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		users:     make(map[string]entity.User),
		emails:    make(map[string]string),
		intervals: make(map[string]entity.Intervals),
		tasks:     make(map[string]entity.Task),
		blocks:    make(map[string]entity.TimeBlock),
		sessions:  make(map[string]entity.PomodoroSession),
		rounds:    make(map[string]entity.PomodoroRound),
		seqOf:     make(map[string]int64),
		clock:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

func (s *Store) TimeBlocks() *TimeBlockRepository { return &TimeBlockRepository{s: s} }

func (s *Store) Pomodoro() *PomodoroRepository { return &PomodoroRepository{s: s} }

// Ping always succeeds; it lets the store stand in for the database in health checks.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// newID keeps a caller supplied id and generates one otherwise. Caller holds mu.
func (s *Store) newID(id string) string {
	if id == "" {
		id = uuid.NewString()
	}
	s.seq++
	s.seqOf[id] = s.seq
	return id
}

func (s *Store) now() time.Time { return s.clock().UTC() }

// DeleteUser removes a user and everything the user owns.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	delete(s.emails, u.Email)
	delete(s.intervals, id)
	for k, t := range s.tasks {
		if t.UserID == id {
			delete(s.tasks, k)
		}
	}
	for k, b := range s.blocks {
		if b.UserID == id {
			delete(s.blocks, k)
		}
	}
	for k, ps := range s.sessions {
		if ps.UserID == id {
			s.deleteSessionLocked(k)
		}
	}
	return nil
}

func (s *Store) deleteSessionLocked(id string) {
	delete(s.sessions, id)
	for k, r := range s.rounds {
		if r.SessionID == id {
			delete(s.rounds, k)
		}
	}
}

// sortByCreated orders by creation time, falling back to insertion order.
func sortByCreated[T any](s *Store, items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return s.seqOf[id(items[i])] < s.seqOf[id(items[j])]
	})
}

// UserRepository

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *entity.User, in entity.Intervals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.emails[u.Email]; ok {
		return repository.ErrDuplicate
	}
	if _, ok := r.s.users[u.ID]; ok && u.ID != "" {
		return repository.ErrDuplicate
	}
	u.ID = r.s.newID(u.ID)
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	r.s.emails[u.Email] = u.ID
	in.UserID = u.ID
	r.s.intervals[u.ID] = in
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if old.Email != u.Email {
		if _, taken := r.s.emails[u.Email]; taken {
			return repository.ErrDuplicate
		}
		delete(r.s.emails, old.Email)
		r.s.emails[u.Email] = u.ID
	}
	u.CreatedAt = old.CreatedAt
	u.UpdatedAt = r.s.now()
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetIntervals(ctx context.Context, userID string) (*entity.Intervals, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	in, ok := r.s.intervals[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &in, nil
}

func (r *UserRepository) UpdateIntervals(ctx context.Context, in *entity.Intervals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.intervals[in.UserID]; !ok {
		return repository.ErrNotFound
	}
	r.s.intervals[in.UserID] = *in
	return nil
}

// TaskRepository

type TaskRepository struct{ s *Store }

func (r *TaskRepository) collect(userID string, keep func(entity.Task) bool) []entity.Task {
	out := make([]entity.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID && keep(t) {
			out = append(out, t)
		}
	}
	sortByCreated(r.s, out, func(t entity.Task) time.Time { return t.CreatedAt }, func(t entity.Task) string { return t.ID })
	return out
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(userID, func(entity.Task) bool { return true }), nil
}

func (r *TaskRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.collect(userID, func(t entity.Task) bool { return !t.CreatedAt.Before(since) }), nil
}

func (r *TaskRepository) CountCompleted(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.collect(userID, func(t entity.Task) bool { return t.IsCompleted })), nil
}

func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[t.UserID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.tasks[t.ID]; ok && t.ID != "" {
		return repository.ErrDuplicate
	}
	t.ID = r.s.newID(t.ID)
	now := r.s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	r.s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.tasks[t.ID]
	if !ok || old.UserID != t.UserID {
		return repository.ErrNotFound
	}
	t.UpdatedAt = r.s.now()
	r.s.tasks[t.ID] = *t
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

// TimeBlockRepository

type TimeBlockRepository struct{ s *Store }

func (r *TimeBlockRepository) ListByUser(ctx context.Context, userID string) ([]entity.TimeBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]entity.TimeBlock, 0)
	for _, b := range r.s.blocks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortByCreated(r.s, out, func(b entity.TimeBlock) time.Time { return b.CreatedAt }, func(b entity.TimeBlock) string { return b.ID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *TimeBlockRepository) Get(ctx context.Context, userID, id string) (*entity.TimeBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.blocks[id]
	if !ok || b.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *TimeBlockRepository) Count(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, b := range r.s.blocks {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *TimeBlockRepository) Create(ctx context.Context, b *entity.TimeBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[b.UserID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.blocks[b.ID]; ok && b.ID != "" {
		return repository.ErrDuplicate
	}
	b.ID = r.s.newID(b.ID)
	now := r.s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.blocks[b.ID] = *b
	return nil
}

func (r *TimeBlockRepository) Update(ctx context.Context, b *entity.TimeBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.blocks[b.ID]
	if !ok || old.UserID != b.UserID {
		return repository.ErrNotFound
	}
	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = r.s.now()
	r.s.blocks[b.ID] = *b
	return nil
}

func (r *TimeBlockRepository) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.blocks[id]
	if !ok || b.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.blocks, id)
	return nil
}

// Reorder validates every id before writing so a foreign id leaves the table untouched.
func (r *TimeBlockRepository) Reorder(ctx context.Context, userID string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, id := range ids {
		b, ok := r.s.blocks[id]
		if !ok || b.UserID != userID {
			return repository.ErrNotFound
		}
	}
	now := r.s.now()
	for i, id := range ids {
		b := r.s.blocks[id]
		b.Order = i
		b.UpdatedAt = now
		r.s.blocks[id] = b
	}
	return nil
}

// PomodoroRepository

type PomodoroRepository struct{ s *Store }

// withRounds attaches rounds sorted by position. Caller holds mu.
func (r *PomodoroRepository) withRounds(ps entity.PomodoroSession) *entity.PomodoroSession {
	ps.Rounds = make([]entity.PomodoroRound, 0)
	for _, rd := range r.s.rounds {
		if rd.SessionID == ps.ID {
			ps.Rounds = append(ps.Rounds, rd)
		}
	}
	slices.SortFunc(ps.Rounds, func(a, b entity.PomodoroRound) int { return a.Position - b.Position })
	return &ps
}

func (r *PomodoroRepository) FindSince(ctx context.Context, userID string, since time.Time) (*entity.PomodoroSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ps, ok := r.findSinceLocked(userID, since)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ps, nil
}

// findSinceLocked returns the earliest session of userID created at or after since. Caller holds mu.
func (r *PomodoroRepository) findSinceLocked(userID string, since time.Time) (*entity.PomodoroSession, bool) {
	found := make([]entity.PomodoroSession, 0, 1)
	for _, ps := range r.s.sessions {
		if ps.UserID == userID && !ps.CreatedAt.Before(since) {
			found = append(found, ps)
		}
	}
	if len(found) == 0 {
		return nil, false
	}
	sortByCreated(r.s, found, func(ps entity.PomodoroSession) time.Time { return ps.CreatedAt }, func(ps entity.PomodoroSession) string { return ps.ID })
	return r.withRounds(found[0]), true
}

func (r *PomodoroRepository) CreateWithRounds(ctx context.Context, ps *entity.PomodoroSession, rounds int, since time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[ps.UserID]; !ok {
		return false, repository.ErrNotFound
	}
	if existing, ok := r.findSinceLocked(ps.UserID, since); ok {
		*ps = *existing
		return false, nil
	}
	now := r.s.now()
	ps.ID = r.s.newID(ps.ID)
	ps.CreatedAt, ps.UpdatedAt = now, now
	ps.Rounds = make([]entity.PomodoroRound, 0, rounds)
	for i := 0; i < rounds; i++ {
		rd := entity.PomodoroRound{ID: r.s.newID(""), SessionID: ps.ID, Position: i, CreatedAt: now, UpdatedAt: now}
		r.s.rounds[rd.ID] = rd
		ps.Rounds = append(ps.Rounds, rd)
	}
	stored := *ps
	stored.Rounds = nil
	r.s.sessions[ps.ID] = stored
	return true, nil
}

func (r *PomodoroRepository) GetSession(ctx context.Context, userID, id string) (*entity.PomodoroSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ps, ok := r.s.sessions[id]
	if !ok || ps.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return r.withRounds(ps), nil
}

func (r *PomodoroRepository) UpdateSession(ctx context.Context, userID, id string, isCompleted bool) (*entity.PomodoroSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ps, ok := r.s.sessions[id]
	if !ok || ps.UserID != userID {
		return nil, repository.ErrNotFound
	}
	ps.IsCompleted = isCompleted
	ps.UpdatedAt = r.s.now()
	r.s.sessions[id] = ps
	return r.withRounds(ps), nil
}

func (r *PomodoroRepository) GetRound(ctx context.Context, userID, id string) (*entity.PomodoroRound, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rd, ok := r.s.rounds[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if ps, ok := r.s.sessions[rd.SessionID]; !ok || ps.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &rd, nil
}

func (r *PomodoroRepository) UpdateRound(ctx context.Context, rd *entity.PomodoroRound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.rounds[rd.ID]
	if !ok {
		return repository.ErrNotFound
	}
	rd.SessionID, rd.Position, rd.CreatedAt = old.SessionID, old.Position, old.CreatedAt
	rd.UpdatedAt = r.s.now()
	r.s.rounds[rd.ID] = *rd
	return nil
}

func (r *PomodoroRepository) DeleteSession(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ps, ok := r.s.sessions[id]
	if !ok || ps.UserID != userID {
		return repository.ErrNotFound
	}
	r.s.deleteSessionLocked(id)
	return nil
}

var (
	_ repository.UserRepository      = (*UserRepository)(nil)
	_ repository.TaskRepository      = (*TaskRepository)(nil)
	_ repository.TimeBlockRepository = (*TimeBlockRepository)(nil)
	_ repository.PomodoroRepository  = (*PomodoroRepository)(nil)
)
