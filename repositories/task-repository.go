// Package repositories holds the record stores behind the tasks service.
package repositories

import (
	"context"
	"time"

	"github.com/Yash-Soni1/node-crew/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStore is the record store capability the services are written against.
// Find and FindByID return tasks with canonical status and priority labels;
// GroupCount groups on the labels exactly as stored.
type TaskStore interface {
	Find(ctx context.Context, criteria TaskCriteria, opts FindOptions) ([]*models.Task, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	CountWhere(ctx context.Context, criteria TaskCriteria) (int64, error)
	GroupCount(ctx context.Context, field GroupField, criteria TaskCriteria) (map[string]int64, error)
	Insert(ctx context.Context, task *models.Task) (*models.Task, error)
	Replace(ctx context.Context, task *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type GroupField string

const (
	GroupByStatus   GroupField = "status"
	GroupByPriority GroupField = "priority"
)

// TaskCriteria is a typed task filter. Zero value matches every task.
type TaskCriteria struct {
	AssignedTo      *primitive.ObjectID
	Statuses        []models.TaskStatus
	ExcludeStatuses []models.TaskStatus
	DueBefore       *time.Time
}

// AllTasks matches every task.
func AllTasks() TaskCriteria {
	return TaskCriteria{}
}

// AssignedTasks matches the tasks assigned to userID.
func AssignedTasks(userID primitive.ObjectID) TaskCriteria {
	return TaskCriteria{AssignedTo: &userID}
}

// WithStatus narrows the criteria to tasks in any of the given statuses.
func (c TaskCriteria) WithStatus(statuses ...models.TaskStatus) TaskCriteria {
	c.Statuses = append(append([]models.TaskStatus(nil), c.Statuses...), statuses...)
	return c
}

// Overdue narrows the criteria to unfinished tasks due before now.
func (c TaskCriteria) Overdue(now time.Time) TaskCriteria {
	c.ExcludeStatuses = append(append([]models.TaskStatus(nil), c.ExcludeStatuses...), models.StatusCompleted)
	c.DueBefore = &now
	return c
}

// Matches evaluates the criteria against a task, comparing statuses after
// normalization.
func (c TaskCriteria) Matches(task *models.Task) bool {
	if c.AssignedTo != nil && !task.IsAssignedTo(*c.AssignedTo) {
		return false
	}
	key := models.LabelKey(string(task.Status))
	if len(c.Statuses) > 0 && !containsStatusKey(c.Statuses, key) {
		return false
	}
	if containsStatusKey(c.ExcludeStatuses, key) {
		return false
	}
	if c.DueBefore != nil && !task.DueDate.Before(*c.DueBefore) {
		return false
	}
	return true
}

func containsStatusKey(statuses []models.TaskStatus, key string) bool {
	for _, status := range statuses {
		if status.Key() == key {
			return true
		}
	}
	return false
}

type FindOptions struct {
	// SortByCreatedDesc orders newest first.
	SortByCreatedDesc bool
	// Limit caps the result size; zero means no limit.
	Limit int64
}
