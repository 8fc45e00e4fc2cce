// Package testutil holds store doubles shared by tests across packages.
package testutil

import (
	"context"
	"sync"

	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FaultyTaskStore passes calls to Next until an error is set with Fail,
// then returns that error from every operation.
type FaultyTaskStore struct {
	Next repositories.TaskStore

	mu  sync.RWMutex
	err error
}

func NewFaultyTaskStore(next repositories.TaskStore) *FaultyTaskStore {
	return &FaultyTaskStore{Next: next}
}

// Fail makes every later call return err. A nil err restores pass-through.
func (s *FaultyTaskStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *FaultyTaskStore) failure() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *FaultyTaskStore) Find(ctx context.Context, criteria repositories.TaskCriteria, opts repositories.FindOptions) ([]*models.Task, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.Find(ctx, criteria, opts)
}

func (s *FaultyTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.FindByID(ctx, id)
}

func (s *FaultyTaskStore) CountWhere(ctx context.Context, criteria repositories.TaskCriteria) (int64, error) {
	if err := s.failure(); err != nil {
		return 0, err
	}
	return s.Next.CountWhere(ctx, criteria)
}

func (s *FaultyTaskStore) GroupCount(ctx context.Context, field repositories.GroupField, criteria repositories.TaskCriteria) (map[string]int64, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.GroupCount(ctx, field, criteria)
}

func (s *FaultyTaskStore) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.Insert(ctx, task)
}

func (s *FaultyTaskStore) Replace(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.Replace(ctx, task)
}

func (s *FaultyTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.failure(); err != nil {
		return err
	}
	return s.Next.Delete(ctx, id)
}

// FaultyUserStore is FaultyTaskStore for users.
type FaultyUserStore struct {
	Next repositories.UserStore

	mu  sync.RWMutex
	err error
}

func NewFaultyUserStore(next repositories.UserStore) *FaultyUserStore {
	return &FaultyUserStore{Next: next}
}

func (s *FaultyUserStore) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *FaultyUserStore) failure() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *FaultyUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.FindByID(ctx, id)
}

func (s *FaultyUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.FindByIDs(ctx, ids)
}

func (s *FaultyUserStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	if err := s.failure(); err != nil {
		return nil, err
	}
	return s.Next.ListByRoles(ctx, roles...)
}
