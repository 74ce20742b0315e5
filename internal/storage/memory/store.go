package memory

import (
	"context"
	"sync"

	"example.com/userdir/internal/domain"
	"example.com/userdir/internal/storage"
)

// Store keeps users in a slice in insertion order. A single mutex guards the
// slice and the id counter, so concurrent writers to the same record are
// applied in lock order and the last one wins.
type Store struct {
	mu     sync.Mutex
	users  []domain.User
	nextID int64
}

// New returns a store holding the seed users, with the next id following them.
func New() *Store {
	seed := domain.SeedUsers()
	return &Store{users: seed, nextID: seed[len(seed)-1].ID + 1}
}

// NewEmpty returns a store without records whose first assigned id is nextID.
func NewEmpty(nextID int64) *Store {
	if nextID <= 0 {
		nextID = 1
	}
	return &Store{users: make([]domain.User, 0, 16), nextID: nextID}
}

func (s *Store) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) Create(_ context.Context, name string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{ID: s.nextID, Name: name}
	s.nextID++
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) Update(_ context.Context, id int64, name string) (domain.User, domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.User{}, domain.User{}, storage.ErrNotFound
	}
	before := s.users[i]
	s.users[i].Name = name
	return before, s.users[i], nil
}

func (s *Store) Delete(_ context.Context, id int64) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.User{}, storage.ErrNotFound
	}
	removed := s.users[i]
	s.users = append(s.users[:i], s.users[i+1:]...)
	return removed, nil
}

// Len reports the number of stored users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
