package auth_test

import (
	"context"
	"sync"

	"git.sr.ht/~aondrejcak/trendify-api/auth"
	"git.sr.ht/~aondrejcak/trendify-api/models"
)

// fakeStore is an in-memory Store with the same uniqueness semantics as
// the database-backed one. beforeCreate lets tests interleave a
// concurrent writer.
type fakeStore struct {
	mu     sync.Mutex
	nextID uint
	admins map[string]*models.Admin

	beforeCreate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{admins: map[string]*models.Admin{}}
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.admins[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, auth.ErrNotFound
}

func (s *fakeStore) FirstCredential(context.Context) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var first *models.Admin
	for _, a := range s.admins {
		if first == nil || a.ID < first.ID {
			first = a
		}
	}
	if first == nil {
		return nil, auth.ErrNotFound
	}
	cp := *first
	return &cp, nil
}

func (s *fakeStore) Create(_ context.Context, admin *models.Admin) error {
	if s.beforeCreate != nil {
		hook := s.beforeCreate
		s.beforeCreate = nil
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[admin.Email]; ok {
		return auth.ErrDuplicateEmail
	}
	s.nextID++
	admin.ID = s.nextID
	cp := *admin
	s.admins[admin.Email] = &cp
	return nil
}

func (s *fakeStore) UpdatePasswordHash(_ context.Context, id uint, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.ID == id {
			a.PasswordHash = hash
			return nil
		}
	}
	return auth.ErrNotFound
}

func (s *fakeStore) DeleteAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins = map[string]*models.Admin{}
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.admins)
}
