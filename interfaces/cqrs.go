// Package interfaces holds the contracts between the command and query
// handlers and the services behind them.
package interfaces

import (
	"context"

	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskCommandContext is the mutation side of the tasks service.
type TaskCommandContext interface {
	CreateTask(ctx context.Context, caller models.Caller, input models.NewTask) (*models.Task, error)
	ApplyChecklist(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, items []models.ChecklistItem) (*models.Task, bool, error)
	ApplyStatus(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, status string) (*models.Task, bool, error)
	ApplyFields(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, caller models.Caller, taskID primitive.ObjectID) error
}

// DashboardQueryContext is the read side used by dashboard queries.
type DashboardQueryContext interface {
	AdminDashboard(ctx context.Context, caller models.Caller) (*models.Dashboard, error)
	UserDashboard(ctx context.Context, caller models.Caller) (*models.Dashboard, error)
}

// ActivityQueryContext is the read side used by activity queries.
type ActivityQueryContext interface {
	ListActivity(ctx context.Context, taskID primitive.ObjectID, limit int) ([]models.TaskActivity, error)
}

// ActivityRecorder stores one activity entry per successful mutation.
type ActivityRecorder interface {
	Record(ctx context.Context, activity models.TaskActivity) error
}

// DashboardInvalidator drops cached dashboards after a mutation.
type DashboardInvalidator interface {
	InvalidateAll(ctx context.Context) error
}
