package commands

import (
	"context"
	"fmt"

	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UpdateTaskCommand struct {
	Caller models.Caller
	TaskID primitive.ObjectID
	Patch  models.TaskPatch
}

func (h *TaskCommandHandler) HandleUpdateTask(ctx context.Context, cmd UpdateTaskCommand) (*models.Task, error) {
	task, err := h.Tasks.ApplyFields(ctx, cmd.Caller, cmd.TaskID, cmd.Patch)
	if err != nil {
		return nil, err
	}
	h.afterMutation(ctx, cmd.Caller, task.ID, models.ActivityUpdateTask, fmt.Sprintf("updated %q", task.Title))
	return task, nil
}

type DeleteTaskCommand struct {
	Caller models.Caller
	TaskID primitive.ObjectID
}

func (h *TaskCommandHandler) HandleDeleteTask(ctx context.Context, cmd DeleteTaskCommand) error {
	if err := h.Tasks.DeleteTask(ctx, cmd.Caller, cmd.TaskID); err != nil {
		return err
	}
	h.afterMutation(ctx, cmd.Caller, cmd.TaskID, models.ActivityDeleteTask, "deleted")
	return nil
}
