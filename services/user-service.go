package services

import (
	"context"

	"github.com/Yash-Soni1/node-crew/access"
	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users repositories.UserStore
	tasks repositories.TaskStore
}

func NewUserService(users repositories.UserStore, tasks repositories.TaskStore) *UserService {
	return &UserService{users: users, tasks: tasks}
}

// ListUsers returns every admin and member together with the status counts
// of the tasks assigned to them. Admin only.
func (s *UserService) ListUsers(ctx context.Context, caller models.Caller) ([]models.UserWithTaskCounts, error) {
	if !access.CanViewAll(caller) {
		return nil, apperrors.Forbidden("only admins can list users")
	}

	users, err := s.users.ListByRoles(ctx, models.RoleAdmin, models.RoleMember)
	if err != nil {
		return nil, err
	}

	result := make([]models.UserWithTaskCounts, 0, len(users))
	for _, user := range users {
		groups, err := s.tasks.GroupCount(ctx, repositories.GroupByStatus, repositories.AssignedTasks(user.ID))
		if err != nil {
			return nil, err
		}
		dist := foldStatuses(groups)
		result = append(result, models.UserWithTaskCounts{
			User:            user,
			PendingTasks:    dist[string(models.StatusPending)],
			InProgressTasks: dist[string(models.StatusInProgress)],
			CompletedTasks:  dist[string(models.StatusCompleted)],
		})
	}
	return result, nil
}

// GetUser returns the user with the given id.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}
