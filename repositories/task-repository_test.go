package repositories

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLabelPatternMatchesEverySpelling(t *testing.T) {
	tests := []struct {
		status  models.TaskStatus
		matches []string
		rejects []string
	}{
		{
			status:  models.StatusInProgress,
			matches: []string{"in-progress", "In Progress", "inProgress", "IN_PROGRESS", "InProgress"},
			rejects: []string{"pending", "progress", "in-progress-ish"},
		},
		{
			status:  models.StatusCompleted,
			matches: []string{"completed", "Completed", "COMPLETED"},
			rejects: []string{"complete", "not completed"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			pattern := labelPattern(tt.status.Key())
			re := regexp.MustCompile("(?" + pattern.Options + ")" + pattern.Pattern)
			for _, label := range tt.matches {
				if !re.MatchString(label) {
					t.Errorf("expected %q to match %s", label, pattern.Pattern)
				}
				if got, _ := models.CanonicalStatus(label); got != tt.status {
					t.Errorf("pattern and CanonicalStatus disagree on %q", label)
				}
			}
			for _, label := range tt.rejects {
				if re.MatchString(label) {
					t.Errorf("expected %q not to match %s", label, pattern.Pattern)
				}
			}
		})
	}
}

func TestTaskFilter(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		criteria TaskCriteria
		want     bson.M
	}{
		{name: "all", criteria: AllTasks(), want: bson.M{}},
		{name: "assignee", criteria: AssignedTasks(userID), want: bson.M{"assignedTo": userID}},
		{
			name:     "assignee with status",
			criteria: AssignedTasks(userID).WithStatus(models.StatusPending),
			want: bson.M{
				"assignedTo": userID,
				"status":     bson.M{"$in": bson.A{labelPattern("pending")}},
			},
		},
		{
			name:     "overdue",
			criteria: AllTasks().Overdue(now),
			want: bson.M{
				"status":  bson.M{"$nin": bson.A{labelPattern("completed")}},
				"dueDate": bson.M{"$lt": now},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := taskFilter(tt.criteria); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("taskFilter() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCriteriaMatches(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()
	task := &models.Task{
		Status:     "Completed",
		DueDate:    now.Add(-time.Hour),
		AssignedTo: []primitive.ObjectID{userID},
	}

	if !AssignedTasks(userID).WithStatus(models.StatusCompleted).Matches(task) {
		t.Error("capitalized stored status should match canonical filter")
	}
	if AssignedTasks(primitive.NewObjectID()).Matches(task) {
		t.Error("other assignee should not match")
	}
	if AllTasks().Overdue(now).Matches(task) {
		t.Error("completed task is never overdue")
	}

	task.Status = "In Progress"
	if !AllTasks().Overdue(now).Matches(task) {
		t.Error("unfinished past-due task should be overdue")
	}
}

func TestWithStatusDoesNotAlias(t *testing.T) {
	base := AllTasks().WithStatus(models.StatusPending)
	a := base.WithStatus(models.StatusCompleted)
	b := base.WithStatus(models.StatusInProgress)
	if a.Statuses[1] != models.StatusCompleted || b.Statuses[1] != models.StatusInProgress {
		t.Errorf("derived criteria share backing storage: %v %v", a.Statuses, b.Statuses)
	}
}

func TestMemoryTaskStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, status := range []models.TaskStatus{"Completed", "completed", "Pending"} {
		_, err := store.Insert(ctx, &models.Task{
			Title:     "task",
			Status:    status,
			Priority:  "High",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	groups, err := store.GroupCount(ctx, GroupByStatus, AllTasks())
	if err != nil {
		t.Fatalf("GroupCount: %v", err)
	}
	want := map[string]int64{"Completed": 1, "completed": 1, "Pending": 1}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("GroupCount() = %v, want raw labels %v", groups, want)
	}

	recent, err := store.Find(ctx, AllTasks(), FindOptions{SortByCreatedDesc: true, Limit: 2})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(recent) != 2 || recent[0].Status != models.StatusPending || !recent[0].CreatedAt.After(recent[1].CreatedAt) {
		t.Errorf("unexpected recent tasks: %+v", recent)
	}
	if recent[0].Priority != models.PriorityHigh {
		t.Errorf("Find should return canonical labels, got %q", recent[0].Priority)
	}

	count, err := store.CountWhere(ctx, AllTasks().WithStatus(models.StatusCompleted))
	if err != nil || count != 2 {
		t.Errorf("CountWhere() = %d, %v; want 2", count, err)
	}

	if _, err := store.FindByID(ctx, primitive.NewObjectID()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("FindByID(unknown) = %v, want not found", err)
	}
	if err := store.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Delete(unknown) = %v, want not found", err)
	}
}

func TestMemoryTaskStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTaskStore()
	task, _ := store.Insert(ctx, &models.Task{
		Title:         "isolated",
		TodoChecklist: []models.ChecklistItem{{Text: "a"}},
	})

	task.TodoChecklist[0].Completed = true
	stored, err := store.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.TodoChecklist[0].Completed {
		t.Error("mutating the inserted value leaked into the store")
	}
}
