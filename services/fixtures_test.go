package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func admin() models.Caller {
	return models.Caller{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
}

func member() models.Caller {
	return models.Caller{ID: primitive.NewObjectID(), Role: models.RoleMember}
}

func items(completed ...bool) []models.ChecklistItem {
	out := make([]models.ChecklistItem, len(completed))
	for i, done := range completed {
		out[i] = models.ChecklistItem{Text: "step", Completed: done}
	}
	return out
}

// seed stores a task with the given raw labels, bypassing the reconciler.
func seed(t *testing.T, store *repositories.MemoryTaskStore, status, priority string, assignees ...primitive.ObjectID) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:            primitive.NewObjectID(),
		Title:         "task",
		Description:   "description",
		Priority:      models.TaskPriority(priority),
		Status:        models.TaskStatus(status),
		DueDate:       fixedNow.Add(24 * time.Hour),
		AssignedTo:    assignees,
		TodoChecklist: items(false, false),
		Attachments:   []string{},
		CreatedAt:     fixedNow,
		UpdatedAt:     fixedNow,
	}
	if _, err := store.Insert(context.Background(), task); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return task
}

func load(t *testing.T, store repositories.TaskStore, id primitive.ObjectID) *models.Task {
	t.Helper()
	task, err := store.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	return task
}

func assertKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

// replaceFailingStore fails every Replace while reads go through.
type replaceFailingStore struct {
	repositories.TaskStore
}

func (s replaceFailingStore) Replace(ctx context.Context, task *models.Task) (*models.Task, error) {
	return nil, apperrors.Unavailable(errors.New("write timeout"), "failed to update task")
}
