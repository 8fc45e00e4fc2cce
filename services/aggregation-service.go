package services

import (
	"context"
	"time"

	"github.com/Yash-Soni1/node-crew/access"
	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

const DefaultRecentTasksLimit = 10

// DashboardCache stores computed dashboards per scope key. Entries belong
// to a generation; invalidation moves to a new one.
type DashboardCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, scope string) (*models.Dashboard, bool, error)
	Set(ctx context.Context, generation int64, scope string, dashboard *models.Dashboard) error
}

// AggregationService computes counts and distributions over a scope. Counts
// are folded through the label table so drifted spellings land in their
// canonical bucket.
type AggregationService struct {
	store       repositories.TaskStore
	cache       DashboardCache
	now         func() time.Time
	recentLimit int64
}

func NewAggregationService(store repositories.TaskStore, cache DashboardCache, recentLimit int64) *AggregationService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentTasksLimit
	}
	return &AggregationService{store: store, cache: cache, now: time.Now, recentLimit: recentLimit}
}

// WithClock replaces the time source used for the overdue cutoff.
func (s *AggregationService) WithClock(now func() time.Time) *AggregationService {
	s.now = now
	return s
}

// Summarize returns total, per-status and overdue counts for scope. The
// overdue cutoff is sampled once per call.
func (s *AggregationService) Summarize(ctx context.Context, scope repositories.TaskCriteria) (models.Statistics, error) {
	now := s.now()

	var (
		total, overdue int64
		groups         map[string]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.store.CountWhere(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.store.CountWhere(gctx, scope.Overdue(now))
		return err
	})
	g.Go(func() (err error) {
		groups, err = s.store.GroupCount(gctx, repositories.GroupByStatus, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Statistics{}, err
	}
	return statistics(total, overdue, foldStatuses(groups)), nil
}

// DistributionByStatus counts the tasks in scope per canonical status. The
// "All" entry holds the scope total.
func (s *AggregationService) DistributionByStatus(ctx context.Context, scope repositories.TaskCriteria) (models.Distribution, error) {
	total, err := s.store.CountWhere(ctx, scope)
	if err != nil {
		return nil, err
	}
	groups, err := s.store.GroupCount(ctx, repositories.GroupByStatus, scope)
	if err != nil {
		return nil, err
	}
	dist := foldStatuses(groups)
	dist[models.DistributionAllKey] = total
	return dist, nil
}

// DistributionByPriority counts the tasks in scope per canonical priority.
func (s *AggregationService) DistributionByPriority(ctx context.Context, scope repositories.TaskCriteria) (models.Distribution, error) {
	groups, err := s.store.GroupCount(ctx, repositories.GroupByPriority, scope)
	if err != nil {
		return nil, err
	}
	return foldPriorities(groups), nil
}

// RecentTasks returns up to limit tasks in scope, newest first.
func (s *AggregationService) RecentTasks(ctx context.Context, scope repositories.TaskCriteria, limit int64) ([]models.TaskSummary, error) {
	tasks, err := s.store.Find(ctx, scope, repositories.FindOptions{SortByCreatedDesc: true, Limit: limit})
	if err != nil {
		return nil, err
	}
	recent := make([]models.TaskSummary, 0, len(tasks))
	for _, task := range tasks {
		recent = append(recent, models.NewTaskSummary(task))
	}
	return recent, nil
}

// AdminDashboard builds the dashboard over every task.
func (s *AggregationService) AdminDashboard(ctx context.Context, caller models.Caller) (*models.Dashboard, error) {
	if !access.CanViewAll(caller) {
		return nil, apperrors.Forbidden("only admins can view the global dashboard")
	}
	return s.Dashboard(ctx, "all", repositories.AllTasks())
}

// UserDashboard builds the dashboard over the tasks assigned to the caller,
// whatever their role.
func (s *AggregationService) UserDashboard(ctx context.Context, caller models.Caller) (*models.Dashboard, error) {
	return s.Dashboard(ctx, UserScopeKey(caller.ID), repositories.AssignedTasks(caller.ID))
}

// UserScopeKey is the cache key for a user's own dashboard.
func UserScopeKey(userID primitive.ObjectID) string {
	return "user:" + userID.Hex()
}

// Dashboard returns the dashboard for scope, served from cache when a fresh
// entry exists under key. Cache failures only cost a recomputation.
func (s *AggregationService) Dashboard(ctx context.Context, key string, scope repositories.TaskCriteria) (*models.Dashboard, error) {
	if s.cache == nil {
		return s.computeDashboard(ctx, scope)
	}

	// The generation is read before any task read, so a dashboard that
	// overlaps an invalidation is written under the old generation.
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		logging.Logger.Warnf("Event ID: DASHBOARD_CACHE_READ_FAILED, Description: %v", err)
		return s.computeDashboard(ctx, scope)
	}

	cached, ok, err := s.cache.Get(ctx, generation, key)
	if err != nil {
		logging.Logger.Warnf("Event ID: DASHBOARD_CACHE_READ_FAILED, Description: %v", err)
	} else if ok {
		return cached, nil
	}

	dashboard, err := s.computeDashboard(ctx, scope)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, generation, key, dashboard); err != nil {
		logging.Logger.Warnf("Event ID: DASHBOARD_CACHE_WRITE_FAILED, Description: %v", err)
	}
	return dashboard, nil
}

func (s *AggregationService) computeDashboard(ctx context.Context, scope repositories.TaskCriteria) (*models.Dashboard, error) {
	now := s.now()

	var (
		total, overdue               int64
		statusGroups, priorityGroups map[string]int64
		recent                       []models.TaskSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.store.CountWhere(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.store.CountWhere(gctx, scope.Overdue(now))
		return err
	})
	g.Go(func() (err error) {
		statusGroups, err = s.store.GroupCount(gctx, repositories.GroupByStatus, scope)
		return err
	})
	g.Go(func() (err error) {
		priorityGroups, err = s.store.GroupCount(gctx, repositories.GroupByPriority, scope)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.RecentTasks(gctx, scope, s.recentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statusDist := foldStatuses(statusGroups)
	statusDist[models.DistributionAllKey] = total
	return &models.Dashboard{
		Statistics: statistics(total, overdue, statusDist),
		Charts: models.Charts{
			TaskDistribution:   statusDist,
			TaskPriorityLevels: foldPriorities(priorityGroups),
		},
		RecentTasks: recent,
	}, nil
}

func statistics(total, overdue int64, dist models.Distribution) models.Statistics {
	return models.Statistics{
		TotalTasks:      total,
		PendingTasks:    dist[string(models.StatusPending)],
		InProgressTasks: dist[string(models.StatusInProgress)],
		CompletedTasks:  dist[string(models.StatusCompleted)],
		OverdueTasks:    overdue,
	}
}
