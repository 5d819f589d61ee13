// Package memory provides an in-memory implementation of storage.Store for
// testing and lightweight deployments. Records are lost when the process
// restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/storage"
)

// Store is an in-memory storage.Store guarded by a single RWMutex.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*api.User   // by ID
	byEmail map[string]string      // email -> user ID
	courses map[string]*api.Course // by ID
	seq     int64                  // creation order tiebreaker for listing
	order   map[string]int64       // course ID -> insertion sequence
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:   make(map[string]*api.User),
		byEmail: make(map[string]string),
		courses: make(map[string]*api.Course),
		order:   make(map[string]int64),
	}
}

// CreateUser persists a user, enforcing email uniqueness.
func (s *Store) CreateUser(_ context.Context, user *api.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return storage.ErrConflict
	}
	if _, taken := s.byEmail[user.EmailAddress]; taken {
		return storage.NewValidationError(storage.KindUnique, "emailAddress", api.MsgEmailTaken)
	}

	u := *user
	s.users[u.ID] = &u
	s.byEmail[u.EmailAddress] = u.ID
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, id string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail retrieves a user by exact email match.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

// CreateCourse persists a course. The owner must exist.
func (s *Store) CreateCourse(_ context.Context, course *api.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.courses[course.ID]; exists {
		return storage.ErrConflict
	}
	if _, ok := s.users[course.UserID]; !ok {
		return storage.ErrNotFound
	}

	c := *course
	c.User = nil
	s.courses[c.ID] = &c
	s.seq++
	s.order[c.ID] = s.seq
	return nil
}

// GetCourse retrieves a course with its owner embedded.
func (s *Store) GetCourse(_ context.Context, id string) (*api.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s.withOwner(c), nil
}

// ListCourses returns all courses in creation order with owners embedded.
func (s *Store) ListCourses(_ context.Context) ([]*api.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*api.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, s.withOwner(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].ID] < s.order[out[j].ID]
	})
	return out, nil
}

// UpdateCourse replaces the mutable fields of an existing course.
func (s *Store) UpdateCourse(_ context.Context, course *api.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.courses[course.ID]
	if !ok {
		return storage.ErrNotFound
	}

	existing.Title = course.Title
	existing.Description = course.Description
	existing.EstimatedTime = course.EstimatedTime
	existing.MaterialsNeeded = course.MaterialsNeeded
	return nil
}

// DeleteCourse removes a course.
func (s *Store) DeleteCourse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.courses, id)
	delete(s.order, id)
	return nil
}

// withOwner copies a course and attaches a copy of its owner. Callers hold
// at least the read lock.
func (s *Store) withOwner(c *api.Course) *api.Course {
	cp := *c
	if u, ok := s.users[c.UserID]; ok {
		uc := *u
		cp.User = &uc
	}
	return &cp
}
