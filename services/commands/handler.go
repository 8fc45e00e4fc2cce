// Package commands runs task mutations and their side effects. A mutation
// that succeeds is never reported as failed because a side effect failed.
package commands

import (
	"context"
	"time"

	"github.com/Yash-Soni1/node-crew/interfaces"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskCommandHandler dispatches task commands to the reconciler, then
// records activity and drops cached dashboards.
type TaskCommandHandler struct {
	Tasks    interfaces.TaskCommandContext
	Activity interfaces.ActivityRecorder
	Cache    interfaces.DashboardInvalidator
	now      func() time.Time
}

func NewTaskCommandHandler(tasks interfaces.TaskCommandContext, activity interfaces.ActivityRecorder, cache interfaces.DashboardInvalidator) *TaskCommandHandler {
	return &TaskCommandHandler{Tasks: tasks, Activity: activity, Cache: cache, now: time.Now}
}

func (h *TaskCommandHandler) afterMutation(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, activityType models.ActivityType, details string) {
	if h.Activity != nil {
		err := h.Activity.Record(ctx, models.TaskActivity{
			TaskID:       taskID,
			ActorID:      caller.ID,
			ActivityType: activityType,
			Timestamp:    h.now().UTC(),
			Details:      details,
		})
		if err != nil {
			logging.Logger.Warnf("Event ID: ACTIVITY_RECORD_FAILED, Description: %s on task %s was applied but not recorded: %v", activityType, taskID.Hex(), err)
		}
	}

	if h.Cache != nil {
		if err := h.Cache.InvalidateAll(ctx); err != nil {
			logging.Logger.Warnf("Event ID: DASHBOARD_CACHE_INVALIDATE_FAILED, Description: %v", err)
		}
	}
}
