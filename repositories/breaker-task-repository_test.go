package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// downTaskStore fails every count while err is set.
type downTaskStore struct {
	TaskStore
	err error
}

func (s *downTaskStore) CountWhere(ctx context.Context, criteria TaskCriteria) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.TaskStore.CountWhere(ctx, criteria)
}

// downUserStore fails every role listing while err is set.
type downUserStore struct {
	UserStore
	err error
}

func (s *downUserStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.UserStore.ListByRoles(ctx, roles...)
}

func TestBreakerOpensOnStoreFailures(t *testing.T) {
	ctx := context.Background()
	inner := &downTaskStore{
		TaskStore: NewMemoryTaskStore(),
		err:       apperrors.Unavailable(errors.New("connection reset"), "failed to retrieve tasks"),
	}
	store := NewBreakerTaskStore(inner, 2, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := store.CountWhere(ctx, AllTasks()); !errors.Is(err, apperrors.ErrUnavailable) {
			t.Fatalf("call %d: expected unavailable, got %v", i, err)
		}
	}
	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", store.State())
	}

	inner.err = nil
	_, err := store.CountWhere(ctx, AllTasks())
	if !errors.Is(err, apperrors.ErrUnavailable) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker should short-circuit as unavailable, got %v", err)
	}
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewBreakerTaskStore(NewMemoryTaskStore(), 0, time.Minute)

	for i := 0; i < 5; i++ {
		if _, err := store.FindByID(ctx, primitive.NewObjectID()); !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if store.State() != gobreaker.StateClosed {
		t.Errorf("not found should not trip the breaker, state %s", store.State())
	}

	task, err := store.Insert(ctx, &models.Task{Title: "ok"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Delete(ctx, task.ID); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestUserBreakerOpensOnStoreFailures(t *testing.T) {
	ctx := context.Background()
	member := models.User{Name: "Alice", Role: models.RoleMember}
	inner := &downUserStore{
		UserStore: NewMemoryUserStore(member),
		err:       apperrors.Unavailable(errors.New("server selection timeout"), "failed to retrieve users"),
	}
	store := NewBreakerUserStore(inner, 1, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := store.ListByRoles(ctx, models.RoleMember); !errors.Is(err, apperrors.ErrUnavailable) {
			t.Fatalf("call %d: expected unavailable, got %v", i, err)
		}
	}
	if store.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", store.State())
	}

	inner.err = nil
	if _, err := store.ListByRoles(ctx, models.RoleMember); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("open breaker should short-circuit, got %v", err)
	}

	// Missing users are an answer, not an outage.
	fresh := NewBreakerUserStore(NewMemoryUserStore(), 0, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := fresh.FindByID(ctx, primitive.NewObjectID()); !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if fresh.State() != gobreaker.StateClosed {
		t.Errorf("not found should not trip the user breaker, state %s", fresh.State())
	}
}
