package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newReconciler() (*ReconcilerService, *repositories.MemoryTaskStore) {
	store := repositories.NewMemoryTaskStore()
	return NewReconcilerService(store).WithClock(fixedClock), store
}

func TestApplyChecklistRecomputesProgressAndStatus(t *testing.T) {
	tests := []struct {
		name         string
		checklist    []models.ChecklistItem
		wantProgress int
		wantStatus   models.TaskStatus
	}{
		{name: "none done", checklist: items(false, false, false), wantProgress: 0, wantStatus: models.StatusPending},
		{name: "one of three", checklist: items(true, false, false), wantProgress: 33, wantStatus: models.StatusInProgress},
		{name: "two of three", checklist: items(true, true, false), wantProgress: 67, wantStatus: models.StatusInProgress},
		{name: "all done", checklist: items(true, true, true), wantProgress: 100, wantStatus: models.StatusCompleted},
		{name: "one of eight", checklist: items(true, false, false, false, false, false, false, false), wantProgress: 13, wantStatus: models.StatusInProgress},
		{name: "empty", checklist: []models.ChecklistItem{}, wantProgress: 0, wantStatus: models.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newReconciler()
			assignee := member()
			task := seed(t, store, "completed", "low", assignee.ID)

			updated, _, err := svc.ApplyChecklist(context.Background(), assignee, task.ID, tt.checklist)
			if err != nil {
				t.Fatalf("ApplyChecklist: %v", err)
			}
			stored := load(t, store, task.ID)
			for _, got := range []*models.Task{updated, stored} {
				if got.Progress != tt.wantProgress || got.Status != tt.wantStatus {
					t.Errorf("got progress %d status %s, want %d %s", got.Progress, got.Status, tt.wantProgress, tt.wantStatus)
				}
				if len(got.TodoChecklist) != len(tt.checklist) {
					t.Errorf("checklist has %d items, want %d", len(got.TodoChecklist), len(tt.checklist))
				}
			}
		})
	}
}

func TestChecklistOverridesManualStatus(t *testing.T) {
	svc, store := newReconciler()
	caller := admin()
	task := seed(t, store, "pending", "low")
	ctx := context.Background()

	if _, _, err := svc.ApplyStatus(ctx, caller, task.ID, "completed"); err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	updated, _, err := svc.ApplyChecklist(ctx, caller, task.ID, items(true, false))
	if err != nil {
		t.Fatalf("ApplyChecklist: %v", err)
	}
	if updated.Status != models.StatusInProgress || updated.Progress != 50 {
		t.Errorf("got %s at %d%%, want in-progress at 50%%", updated.Status, updated.Progress)
	}
}

func TestApplyStatusCompletedForcesChecklist(t *testing.T) {
	svc, store := newReconciler()
	assignee := member()
	task := seed(t, store, "in progress", "medium", assignee.ID)

	updated, _, err := svc.ApplyStatus(context.Background(), assignee, task.ID, "Completed")
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	stored := load(t, store, task.ID)
	for _, got := range []*models.Task{updated, stored} {
		if got.Status != models.StatusCompleted || got.Progress != 100 {
			t.Errorf("got %s at %d%%", got.Status, got.Progress)
		}
		for i, item := range got.TodoChecklist {
			if !item.Completed {
				t.Errorf("item %d not completed", i)
			}
		}
	}
}

func TestApplyStatusLeavesChecklistOtherwise(t *testing.T) {
	svc, store := newReconciler()
	caller := admin()
	task := seed(t, store, "pending", "low")
	ctx := context.Background()

	if _, _, err := svc.ApplyChecklist(ctx, caller, task.ID, items(true, false, false, false)); err != nil {
		t.Fatalf("ApplyChecklist: %v", err)
	}
	updated, _, err := svc.ApplyStatus(ctx, caller, task.ID, "pending")
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if updated.Status != models.StatusPending {
		t.Errorf("status = %s", updated.Status)
	}
	if updated.Progress != 25 {
		t.Errorf("progress = %d, want 25", updated.Progress)
	}
	if !reflect.DeepEqual(updated.TodoChecklist, items(true, false, false, false)) {
		t.Errorf("checklist changed: %+v", updated.TodoChecklist)
	}
}

func TestApplyStatusIsIdempotent(t *testing.T) {
	svc, store := newReconciler()
	caller := admin()
	task := seed(t, store, "pending", "low")
	ctx := context.Background()

	first, changed, err := svc.ApplyStatus(ctx, caller, task.ID, "completed")
	if err != nil || !changed {
		t.Fatalf("ApplyStatus = %v, %v", changed, err)
	}
	svc.WithClock(func() time.Time { return fixedNow.Add(time.Hour) })
	second, changed, err := svc.ApplyStatus(ctx, caller, task.ID, "completed")
	if err != nil {
		t.Fatalf("ApplyStatus: %v", err)
	}
	if changed {
		t.Error("repeated status reported a write")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second application changed the task:\n%+v\n%+v", first, second)
	}
}

func TestApplyChecklistReportsNoOp(t *testing.T) {
	svc, store := newReconciler()
	caller := admin()
	task := seed(t, store, "pending", "low")
	ctx := context.Background()

	_, changed, err := svc.ApplyChecklist(ctx, caller, task.ID, task.TodoChecklist)
	if err != nil {
		t.Fatalf("ApplyChecklist: %v", err)
	}
	if changed {
		t.Error("identical checklist reported a write")
	}

	_, changed, err = svc.ApplyChecklist(ctx, caller, task.ID, items(true, false))
	if err != nil || !changed {
		t.Errorf("ApplyChecklist = %v, %v", changed, err)
	}
}

func TestApplyStatusRejectsUnknownLabel(t *testing.T) {
	svc, store := newReconciler()
	task := seed(t, store, "pending", "low")

	_, _, err := svc.ApplyStatus(context.Background(), admin(), task.ID, "archived")
	assertKind(t, err, apperrors.ErrInvalidArgument)
	if got := load(t, store, task.ID); got.Status != models.StatusPending {
		t.Errorf("status changed to %s", got.Status)
	}
}

func TestMutationAccess(t *testing.T) {
	ctx := context.Background()
	assignee := member()
	outsider := member()

	t.Run("outsider cannot touch checklist or status", func(t *testing.T) {
		svc, store := newReconciler()
		task := seed(t, store, "pending", "low", assignee.ID)

		_, _, err := svc.ApplyChecklist(ctx, outsider, task.ID, items(true, true))
		assertKind(t, err, apperrors.ErrForbidden)
		_, _, err = svc.ApplyStatus(ctx, outsider, task.ID, "completed")
		assertKind(t, err, apperrors.ErrForbidden)

		if got := load(t, store, task.ID); got.Progress != 0 || got.Status != models.StatusPending {
			t.Errorf("forbidden mutation was persisted: %+v", got)
		}
	})

	t.Run("creator without admin role cannot edit structure", func(t *testing.T) {
		svc, store := newReconciler()
		task := seed(t, store, "pending", "low", assignee.ID)
		task.CreatedBy = assignee.ID
		if _, err := store.Replace(ctx, task); err != nil {
			t.Fatal(err)
		}

		_, err := svc.ApplyFields(ctx, assignee, task.ID, models.TaskPatch{Title: models.Some("renamed")})
		assertKind(t, err, apperrors.ErrForbidden)
		assertKind(t, svc.DeleteTask(ctx, assignee, task.ID), apperrors.ErrForbidden)
	})

	t.Run("assignee may mutate checklist and status", func(t *testing.T) {
		svc, store := newReconciler()
		task := seed(t, store, "pending", "low", assignee.ID)

		if _, _, err := svc.ApplyChecklist(ctx, assignee, task.ID, items(true, false)); err != nil {
			t.Fatalf("ApplyChecklist: %v", err)
		}
		if _, _, err := svc.ApplyStatus(ctx, assignee, task.ID, "completed"); err != nil {
			t.Fatalf("ApplyStatus: %v", err)
		}
	})
}

func TestUnknownTaskIsNotFound(t *testing.T) {
	svc, _ := newReconciler()
	ctx := context.Background()
	missing := primitive.NewObjectID()

	_, _, err := svc.ApplyChecklist(ctx, admin(), missing, items(true))
	assertKind(t, err, apperrors.ErrNotFound)
	_, _, err = svc.ApplyStatus(ctx, admin(), missing, "pending")
	assertKind(t, err, apperrors.ErrNotFound)
	_, err = svc.ApplyFields(ctx, admin(), missing, models.TaskPatch{})
	assertKind(t, err, apperrors.ErrNotFound)
	assertKind(t, svc.DeleteTask(ctx, admin(), missing), apperrors.ErrNotFound)
}

func TestStoreFailureWritesNothing(t *testing.T) {
	store := repositories.NewMemoryTaskStore()
	svc := NewReconcilerService(replaceFailingStore{store}).WithClock(fixedClock)
	task := seed(t, store, "pending", "low")
	ctx := context.Background()

	_, _, err := svc.ApplyChecklist(ctx, admin(), task.ID, items(true, true))
	assertKind(t, err, apperrors.ErrUnavailable)
	_, _, err = svc.ApplyStatus(ctx, admin(), task.ID, "completed")
	assertKind(t, err, apperrors.ErrUnavailable)

	got := load(t, store, task.ID)
	if got.Status != models.StatusPending || got.Progress != 0 || models.CompletedCount(got.TodoChecklist) != 0 {
		t.Errorf("task changed after failed write: %+v", got)
	}
}

func TestApplyFieldsLeavesStatusAndProgress(t *testing.T) {
	svc, store := newReconciler()
	caller := admin()
	task := seed(t, store, "pending", "low")
	ctx := context.Background()
	due := fixedNow.Add(72 * time.Hour)
	newAssignee := primitive.NewObjectID()

	updated, err := svc.ApplyFields(ctx, caller, task.ID, models.TaskPatch{
		Title:         models.Some("  Renamed  "),
		Priority:      models.Some("High"),
		DueDate:       models.Some(due),
		AssignedTo:    models.Some(models.Assignees{newAssignee, newAssignee}),
		TodoChecklist: models.Some(items(true, true)),
	})
	if err != nil {
		t.Fatalf("ApplyFields: %v", err)
	}

	if updated.Title != "Renamed" || updated.Priority != models.PriorityHigh || !updated.DueDate.Equal(due) {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.Description != task.Description {
		t.Errorf("absent description changed to %q", updated.Description)
	}
	if !reflect.DeepEqual(updated.AssignedTo, []primitive.ObjectID{newAssignee}) {
		t.Errorf("assignees = %v", updated.AssignedTo)
	}
	if updated.Status != models.StatusPending || updated.Progress != 0 {
		t.Errorf("status/progress changed: %s %d", updated.Status, updated.Progress)
	}
}

func TestApplyFieldsValidation(t *testing.T) {
	tests := []struct {
		name  string
		patch models.TaskPatch
	}{
		{name: "blank title", patch: models.TaskPatch{Title: models.Some("   ")}},
		{name: "blank description", patch: models.TaskPatch{Description: models.Some("")}},
		{name: "unknown priority", patch: models.TaskPatch{Priority: models.Some("urgent")}},
		{name: "no assignees", patch: models.TaskPatch{AssignedTo: models.Some(models.Assignees{})}},
		{name: "empty checklist", patch: models.TaskPatch{TodoChecklist: models.Some([]models.ChecklistItem{})}},
		{name: "zero due date", patch: models.TaskPatch{DueDate: models.Some(time.Time{})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newReconciler()
			task := seed(t, store, "pending", "low")
			before := load(t, store, task.ID)

			_, err := svc.ApplyFields(context.Background(), admin(), task.ID, tt.patch)
			assertKind(t, err, apperrors.ErrInvalidArgument)
			if got := load(t, store, task.ID); !reflect.DeepEqual(got, before) {
				t.Errorf("task changed after rejected patch")
			}
		})
	}
}

func TestCreateTask(t *testing.T) {
	due := fixedNow.Add(48 * time.Hour)
	assignee := primitive.NewObjectID()
	valid := func() models.NewTask {
		return models.NewTask{
			Title:         "Write report",
			Description:   "Quarterly numbers",
			Priority:      "medium",
			DueDate:       &due,
			AssignedTo:    models.Assignees{assignee},
			TodoChecklist: items(true, false, false, false),
		}
	}

	t.Run("derives progress and status", func(t *testing.T) {
		svc, store := newReconciler()
		caller := admin()

		task, err := svc.CreateTask(context.Background(), caller, valid())
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		if task.Progress != 25 || task.Status != models.StatusInProgress {
			t.Errorf("got %s at %d%%", task.Status, task.Progress)
		}
		if task.CreatedBy != caller.ID || !task.CreatedAt.Equal(fixedNow) {
			t.Errorf("ownership or timestamp not set: %+v", task)
		}
		if task.Attachments == nil {
			t.Error("attachments should default to an empty list")
		}
		load(t, store, task.ID)
	})

	t.Run("members cannot create", func(t *testing.T) {
		svc, _ := newReconciler()
		_, err := svc.CreateTask(context.Background(), member(), valid())
		assertKind(t, err, apperrors.ErrForbidden)
	})

	invalid := map[string]func(*models.NewTask){
		"blank title":     func(in *models.NewTask) { in.Title = " " },
		"no description":  func(in *models.NewTask) { in.Description = "" },
		"no due date":     func(in *models.NewTask) { in.DueDate = nil },
		"no assignees":    func(in *models.NewTask) { in.AssignedTo = nil },
		"empty checklist": func(in *models.NewTask) { in.TodoChecklist = nil },
		"bad priority":    func(in *models.NewTask) { in.Priority = "critical" },
		"blank item":      func(in *models.NewTask) { in.TodoChecklist = []models.ChecklistItem{{Text: " "}} },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			svc, _ := newReconciler()
			in := valid()
			mutate(&in)
			_, err := svc.CreateTask(context.Background(), admin(), in)
			assertKind(t, err, apperrors.ErrInvalidArgument)
		})
	}
}

func TestDeleteTask(t *testing.T) {
	svc, store := newReconciler()
	task := seed(t, store, "pending", "low")
	ctx := context.Background()

	if err := svc.DeleteTask(ctx, admin(), task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	_, err := store.FindByID(ctx, task.ID)
	assertKind(t, err, apperrors.ErrNotFound)
}
