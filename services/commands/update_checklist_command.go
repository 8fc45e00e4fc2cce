package commands

import (
	"context"
	"fmt"

	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateChecklistCommand struct {
	Caller    models.Caller
	TaskID    primitive.ObjectID
	Checklist []models.ChecklistItem
}

func (h *TaskCommandHandler) HandleUpdateChecklist(ctx context.Context, cmd UpdateChecklistCommand) (*models.Task, error) {
	task, changed, err := h.Tasks.ApplyChecklist(ctx, cmd.Caller, cmd.TaskID, cmd.Checklist)
	if err != nil {
		return nil, err
	}
	if !changed {
		return task, nil
	}
	details := fmt.Sprintf("%d/%d items done, progress %d%%", models.CompletedCount(task.TodoChecklist), len(task.TodoChecklist), task.Progress)
	h.afterMutation(ctx, cmd.Caller, task.ID, models.ActivityUpdateChecklist, details)
	return task, nil
}
