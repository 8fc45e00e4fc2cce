package queries

import (
	"context"

	"github.com/Yash-Soni1/node-crew/interfaces"
	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultActivityLimit = 50

type GetTaskActivityQuery struct {
	TaskID primitive.ObjectID
	Limit  int
}

type GetTaskActivityHandler struct {
	Activity interfaces.ActivityQueryContext
}

func NewGetTaskActivityHandler(ctx interfaces.ActivityQueryContext) *GetTaskActivityHandler {
	return &GetTaskActivityHandler{Activity: ctx}
}

func (h *GetTaskActivityHandler) Handle(ctx context.Context, q GetTaskActivityQuery) ([]models.TaskActivity, error) {
	limit := q.Limit
	if limit <= 0 || limit > DefaultActivityLimit {
		limit = DefaultActivityLimit
	}
	return h.Activity.ListActivity(ctx, q.TaskID, limit)
}
