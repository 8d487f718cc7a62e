// Package memory содержит хранилище в памяти с теми же контрактами, что и PostgresStore.
// Транзакции выполняются строго по очереди, поэтому блокировка строки проекта
// моделируется блокировкой всего хранилища.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"
)

type tables struct {
	users        map[int64]models.User
	projects     map[int64]models.Project
	bids         map[int64]models.Bid
	deliverables map[int64]models.Deliverable
	reviews      map[int64]models.Review
	seq          int64
}

func newTables() *tables {
	return &tables{
		users:        map[int64]models.User{},
		projects:     map[int64]models.Project{},
		bids:         map[int64]models.Bid{},
		deliverables: map[int64]models.Deliverable{},
		reviews:      map[int64]models.Review{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		users:        maps.Clone(t.users),
		projects:     maps.Clone(t.projects),
		bids:         maps.Clone(t.bids),
		deliverables: maps.Clone(t.deliverables),
		reviews:      maps.Clone(t.reviews),
		seq:          t.seq,
	}
}

func (t *tables) nextID() int64 {
	t.seq++
	return t.seq
}

type state struct {
	mu   sync.Mutex
	data *tables
	now  func() time.Time
}

// Store - реализация repository.Store в памяти.
type Store struct {
	state *state
	inTx  bool
}

var _ repository.Store = (*Store)(nil)

// New создает пустое хранилище. now задает часы для отметок времени; nil означает time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{state: &state{data: newTables(), now: now}}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (s *Store) Projects() repository.ProjectRepository { return projectRepo{s} }

func (s *Store) Bids() repository.BidRepository { return bidRepo{s} }

func (s *Store) Deliverables() repository.DeliverableRepository { return deliverableRepo{s} }

func (s *Store) Reviews() repository.ReviewRepository { return reviewRepo{s} }

// InTx выполняет fn под блокировкой хранилища и откатывает изменения при ошибке.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	snapshot := s.state.data.clone()
	if err := fn(ctx, &Store{state: s.state, inTx: true}); err != nil {
		s.state.data = snapshot
		return err
	}
	return nil
}

// lock захватывает хранилище для одиночной операции вне транзакции.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.state.mu.Lock()
	return s.state.mu.Unlock
}

func (s *Store) tables() *tables { return s.state.data }

func (s *Store) now() time.Time { return s.state.now() }
