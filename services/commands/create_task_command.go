package commands

import (
	"context"
	"fmt"

	"github.com/Yash-Soni1/node-crew/models"
)

type CreateTaskCommand struct {
	Caller models.Caller
	Input  models.NewTask
}

func (h *TaskCommandHandler) HandleCreateTask(ctx context.Context, cmd CreateTaskCommand) (*models.Task, error) {
	task, err := h.Tasks.CreateTask(ctx, cmd.Caller, cmd.Input)
	if err != nil {
		return nil, err
	}
	h.afterMutation(ctx, cmd.Caller, task.ID, models.ActivityCreateTask, fmt.Sprintf("created %q", task.Title))
	return task, nil
}
