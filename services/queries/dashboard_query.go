package queries

import (
	"context"

	"github.com/Yash-Soni1/node-crew/interfaces"
	"github.com/Yash-Soni1/node-crew/models"
)

type DashboardScope int

const (
	// ScopeGlobal covers every task and is admin only.
	ScopeGlobal DashboardScope = iota
	// ScopeOwn covers the caller's assigned tasks.
	ScopeOwn
)

type GetDashboardQuery struct {
	Caller models.Caller
	Scope  DashboardScope
}

type GetDashboardHandler struct {
	Dashboards interfaces.DashboardQueryContext
}

func NewGetDashboardHandler(ctx interfaces.DashboardQueryContext) *GetDashboardHandler {
	return &GetDashboardHandler{Dashboards: ctx}
}

func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*models.Dashboard, error) {
	if q.Scope == ScopeGlobal {
		return h.Dashboards.AdminDashboard(ctx, q.Caller)
	}
	return h.Dashboards.UserDashboard(ctx, q.Caller)
}
