package services

import (
	"context"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService answers role-scoped task reads.
type TaskService struct {
	store    repositories.TaskStore
	users    repositories.UserStore
	activity repositories.ActivityLog
}

func NewTaskService(store repositories.TaskStore, users repositories.UserStore, activity repositories.ActivityLog) *TaskService {
	return &TaskService{store: store, users: users, activity: activity}
}

// ListTasks returns the caller's visible tasks, optionally narrowed to one
// status, together with status counts over the caller's whole scope.
func (s *TaskService) ListTasks(ctx context.Context, caller models.Caller, statusFilter string) (*models.TaskList, error) {
	scope := ScopeFor(caller)
	criteria := scope
	if statusFilter != "" {
		status, ok := models.CanonicalStatus(statusFilter)
		if !ok {
			return nil, apperrors.InvalidArgument("invalid status filter %q", statusFilter)
		}
		criteria = scope.WithStatus(status)
	}

	tasks, err := s.store.Find(ctx, criteria, repositories.FindOptions{SortByCreatedDesc: true})
	if err != nil {
		return nil, err
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, models.NewTaskView(task))
	}
	if err := s.populateAssignees(ctx, views); err != nil {
		return nil, err
	}

	summary, err := s.StatusSummary(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &models.TaskList{Tasks: views, StatusSummary: summary}, nil
}

// GetTask fetches a task by id. Reads are not restricted by role.
func (s *TaskService) GetTask(ctx context.Context, id primitive.ObjectID) (*models.TaskView, error) {
	task, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.View(ctx, task)
}

// View wraps an already loaded task in its read view.
func (s *TaskService) View(ctx context.Context, task *models.Task) (*models.TaskView, error) {
	views := []models.TaskView{models.NewTaskView(task)}
	if err := s.populateAssignees(ctx, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

// CountAll counts the tasks in scope.
func (s *TaskService) CountAll(ctx context.Context, scope repositories.TaskCriteria) (int64, error) {
	return s.store.CountWhere(ctx, scope)
}

// CountByStatus counts the tasks in scope whose status normalizes to status.
func (s *TaskService) CountByStatus(ctx context.Context, scope repositories.TaskCriteria, status models.TaskStatus) (int64, error) {
	groups, err := s.store.GroupCount(ctx, repositories.GroupByStatus, scope)
	if err != nil {
		return 0, err
	}
	return foldStatuses(groups)[string(status)], nil
}

// StatusSummary counts the tasks in scope by canonical status.
func (s *TaskService) StatusSummary(ctx context.Context, scope repositories.TaskCriteria) (models.StatusSummary, error) {
	total, err := s.CountAll(ctx, scope)
	if err != nil {
		return models.StatusSummary{}, err
	}
	groups, err := s.store.GroupCount(ctx, repositories.GroupByStatus, scope)
	if err != nil {
		return models.StatusSummary{}, err
	}
	dist := foldStatuses(groups)
	return models.StatusSummary{
		All:             total,
		PendingTasks:    dist[string(models.StatusPending)],
		InProgressTasks: dist[string(models.StatusInProgress)],
		CompletedTasks:  dist[string(models.StatusCompleted)],
	}, nil
}

// ListActivity returns the most recent changes recorded for a task.
func (s *TaskService) ListActivity(ctx context.Context, id primitive.ObjectID, limit int) ([]models.TaskActivity, error) {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.activity.ListByTask(ctx, id, limit)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to read task activity")
	}
	return entries, nil
}

// populateAssignees resolves the assignee ids of every view with one lookup.
func (s *TaskService) populateAssignees(ctx context.Context, views []models.TaskView) error {
	if s.users == nil || len(views) == 0 {
		return nil
	}

	var ids models.Assignees
	for _, view := range views {
		ids = append(ids, view.Task.AssignedTo...)
	}
	users, err := s.users.FindByIDs(ctx, ids.Dedupe())
	if err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}
	// Ids whose user no longer exists are left out.
	for i := range views {
		views[i].AssignedTo = make([]models.UserSummary, 0, len(views[i].Task.AssignedTo))
		for _, id := range views[i].Task.AssignedTo {
			if summary, ok := byID[id]; ok {
				views[i].AssignedTo = append(views[i].AssignedTo, summary)
			}
		}
	}
	return nil
}
