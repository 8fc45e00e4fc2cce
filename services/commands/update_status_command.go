package commands

import (
	"context"
	"fmt"

	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateStatusCommand struct {
	Caller models.Caller
	TaskID primitive.ObjectID
	Status string
}

func (h *TaskCommandHandler) HandleUpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*models.Task, error) {
	task, changed, err := h.Tasks.ApplyStatus(ctx, cmd.Caller, cmd.TaskID, cmd.Status)
	if err != nil {
		return nil, err
	}
	if !changed {
		return task, nil
	}
	h.afterMutation(ctx, cmd.Caller, task.ID, models.ActivityChangeTaskStatus, fmt.Sprintf("status set to %s", task.Status))
	return task, nil
}
