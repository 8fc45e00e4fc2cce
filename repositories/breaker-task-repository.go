package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BreakerTaskStore guards a TaskStore with a circuit breaker. Only store
// failures count against the breaker; missing records and bad input do not.
type BreakerTaskStore struct {
	next    TaskStore
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerTaskStore(next TaskStore, maxFailures uint32, timeout time.Duration) *BreakerTaskStore {
	return &BreakerTaskStore{next: next, breaker: newStoreBreaker("TaskStoreCB", maxFailures, timeout)}
}

func newStoreBreaker(name string, maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
		IsSuccessful: isStoreSuccess,
	}
	return gobreaker.NewCircuitBreaker(settings)
}

func isStoreSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch apperrors.KindOf(err) {
	case apperrors.ErrNotFound, apperrors.ErrInvalidArgument, apperrors.ErrForbidden:
		return true
	}
	return false
}

// State reports the breaker state, for health output.
func (s *BreakerTaskStore) State() gobreaker.State {
	return s.breaker.State()
}

func guarded[T any](breaker *gobreaker.CircuitBreaker, call func() (T, error)) (T, error) {
	result, err := breaker.Execute(func() (interface{}, error) {
		return call()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, apperrors.Unavailable(err, "store temporarily unavailable")
		}
		return zero, err
	}
	return result.(T), nil
}

func (s *BreakerTaskStore) Find(ctx context.Context, criteria TaskCriteria, opts FindOptions) ([]*models.Task, error) {
	return guarded(s.breaker, func() ([]*models.Task, error) {
		return s.next.Find(ctx, criteria, opts)
	})
}

func (s *BreakerTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	return guarded(s.breaker, func() (*models.Task, error) {
		return s.next.FindByID(ctx, id)
	})
}

func (s *BreakerTaskStore) CountWhere(ctx context.Context, criteria TaskCriteria) (int64, error) {
	return guarded(s.breaker, func() (int64, error) {
		return s.next.CountWhere(ctx, criteria)
	})
}

func (s *BreakerTaskStore) GroupCount(ctx context.Context, field GroupField, criteria TaskCriteria) (map[string]int64, error) {
	return guarded(s.breaker, func() (map[string]int64, error) {
		return s.next.GroupCount(ctx, field, criteria)
	})
}

func (s *BreakerTaskStore) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	return guarded(s.breaker, func() (*models.Task, error) {
		return s.next.Insert(ctx, task)
	})
}

func (s *BreakerTaskStore) Replace(ctx context.Context, task *models.Task) (*models.Task, error) {
	return guarded(s.breaker, func() (*models.Task, error) {
		return s.next.Replace(ctx, task)
	})
}

func (s *BreakerTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := guarded(s.breaker, func() (struct{}, error) {
		return struct{}{}, s.next.Delete(ctx, id)
	})
	return err
}

// BreakerUserStore guards a UserStore the same way. Users live on the same
// Mongo client as tasks but trip their own breaker.
type BreakerUserStore struct {
	next    UserStore
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerUserStore(next UserStore, maxFailures uint32, timeout time.Duration) *BreakerUserStore {
	return &BreakerUserStore{next: next, breaker: newStoreBreaker("UserStoreCB", maxFailures, timeout)}
}

func (s *BreakerUserStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return guarded(s.breaker, func() (*models.User, error) {
		return s.next.FindByID(ctx, id)
	})
}

func (s *BreakerUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	return guarded(s.breaker, func() ([]models.User, error) {
		return s.next.FindByIDs(ctx, ids)
	})
}

func (s *BreakerUserStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	return guarded(s.breaker, func() ([]models.User, error) {
		return s.next.ListByRoles(ctx, roles...)
	})
}
