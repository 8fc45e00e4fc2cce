package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/Yash-Soni1/node-crew/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryActivityLogNewestFirst(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryActivityLog()
	taskID := primitive.NewObjectID()
	actor := primitive.NewObjectID()

	kinds := []models.ActivityType{models.ActivityCreateTask, models.ActivityUpdateChecklist, models.ActivityChangeTaskStatus}
	for i, kind := range kinds {
		err := log.Record(ctx, models.TaskActivity{
			TaskID:       taskID,
			ActorID:      actor,
			ActivityType: kind,
			Timestamp:    time.Unix(int64(i), 0),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := log.ListByTask(ctx, taskID, 2)
	if err != nil {
		t.Fatalf("ListByTask: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ActivityType != models.ActivityChangeTaskStatus || entries[1].ActivityType != models.ActivityUpdateChecklist {
		t.Errorf("unexpected order: %+v", entries)
	}
	if entries[0].ID == "" {
		t.Error("expected generated id")
	}

	others, _ := log.ListByTask(ctx, primitive.NewObjectID(), 10)
	if len(others) != 0 {
		t.Errorf("expected no entries for unknown task, got %d", len(others))
	}
}
