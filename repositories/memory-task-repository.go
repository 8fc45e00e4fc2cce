package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryTaskStore keeps tasks in process. Stored labels are kept verbatim so
// it reproduces the grouping behavior of the Mongo store.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]*models.Task
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (s *MemoryTaskStore) Find(ctx context.Context, criteria TaskCriteria, opts FindOptions) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []*models.Task{}
	for _, task := range s.tasks {
		if criteria.Matches(task) {
			out := task.Clone()
			out.NormalizeLabels()
			tasks = append(tasks, out)
		}
	}

	if opts.SortByCreatedDesc {
		sort.Slice(tasks, func(i, j int) bool {
			if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
				return tasks[i].ID.Hex() > tasks[j].ID.Hex()
			}
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	} else {
		sort.Slice(tasks, func(i, j int) bool {
			return tasks[i].ID.Hex() < tasks[j].ID.Hex()
		})
	}

	if opts.Limit > 0 && int64(len(tasks)) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

func (s *MemoryTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task not found")
	}
	out := task.Clone()
	out.NormalizeLabels()
	return out, nil
}

func (s *MemoryTaskStore) CountWhere(ctx context.Context, criteria TaskCriteria) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, task := range s.tasks {
		if criteria.Matches(task) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryTaskStore) GroupCount(ctx context.Context, field GroupField, criteria TaskCriteria) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make(map[string]int64)
	for _, task := range s.tasks {
		if !criteria.Matches(task) {
			continue
		}
		switch field {
		case GroupByStatus:
			groups[string(task.Status)]++
		case GroupByPriority:
			groups[string(task.Priority)]++
		}
	}
	return groups, nil
}

func (s *MemoryTaskStore) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	s.tasks[task.ID] = task.Clone()
	return task, nil
}

func (s *MemoryTaskStore) Replace(ctx context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return nil, apperrors.NotFound("task not found")
	}
	s.tasks[task.ID] = task.Clone()
	return task, nil
}

func (s *MemoryTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return apperrors.NotFound("task not found")
	}
	delete(s.tasks, id)
	return nil
}
