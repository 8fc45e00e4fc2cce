package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Yash-Soni1/node-crew/access"
	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReconcilerService owns every task mutation. It keeps checklist, progress
// and status consistent and writes each change as a single replace.
type ReconcilerService struct {
	store repositories.TaskStore
	now   func() time.Time
}

func NewReconcilerService(store repositories.TaskStore) *ReconcilerService {
	return &ReconcilerService{store: store, now: time.Now}
}

// WithClock replaces the time source used for timestamps.
func (s *ReconcilerService) WithClock(now func() time.Time) *ReconcilerService {
	s.now = now
	return s
}

// CreateTask stores a new task. Progress and status follow the initial
// checklist.
func (s *ReconcilerService) CreateTask(ctx context.Context, caller models.Caller, input models.NewTask) (*models.Task, error) {
	if !access.CanMutateStructure(caller, nil) {
		return nil, apperrors.Forbidden("only admins can create tasks")
	}

	title, err := requireText(input.Title, "task title is required")
	if err != nil {
		return nil, err
	}
	description, err := requireText(input.Description, "task description is required")
	if err != nil {
		return nil, err
	}
	priority, err := parsePriority(input.Priority)
	if err != nil {
		return nil, err
	}
	if input.DueDate == nil || input.DueDate.IsZero() {
		return nil, apperrors.InvalidArgument("due date is required")
	}
	assignees, err := requireAssignees(input.AssignedTo)
	if err != nil {
		return nil, err
	}
	if len(input.TodoChecklist) == 0 {
		return nil, apperrors.InvalidArgument("at least one todo item is required")
	}
	checklist, err := cleanChecklist(input.TodoChecklist)
	if err != nil {
		return nil, err
	}

	now := s.now()
	progress := models.ComputeProgress(checklist)
	task := &models.Task{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Description:   description,
		Priority:      priority,
		Status:        models.StatusForProgress(progress),
		DueDate:       *input.DueDate,
		CreatedBy:     caller.ID,
		AssignedTo:    assignees,
		TodoChecklist: checklist,
		Progress:      progress,
		Attachments:   cleanAttachments(input.Attachments),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.store.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", created.ID.Hex(), caller.ID.Hex())
	return created, nil
}

// ApplyChecklist replaces the checklist and recomputes progress and status.
// Any status set manually before is overwritten.
func (s *ReconcilerService) ApplyChecklist(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, items []models.ChecklistItem) (*models.Task, bool, error) {
	checklist, err := cleanChecklist(items)
	if err != nil {
		return nil, false, err
	}

	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, false, err
	}
	if !access.CanMutateChecklistOrStatus(caller, task) {
		return nil, false, apperrors.Forbidden("not authorized to update this checklist")
	}

	updated := task.Clone()
	updated.TodoChecklist = checklist
	updated.Progress = models.ComputeProgress(checklist)
	updated.Status = models.StatusForProgress(updated.Progress)

	return s.replaceIfChanged(ctx, task, updated, "CHECKLIST_UPDATED")
}

// ApplyStatus sets the status. Completing a task also completes every
// checklist item and sets progress to 100; other statuses leave checklist
// and progress alone.
func (s *ReconcilerService) ApplyStatus(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, label string) (*models.Task, bool, error) {
	status, ok := models.CanonicalStatus(label)
	if !ok {
		return nil, false, apperrors.InvalidArgument("invalid status %q", label)
	}

	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, false, err
	}
	if !access.CanMutateChecklistOrStatus(caller, task) {
		return nil, false, apperrors.Forbidden("not authorized to update this task")
	}

	updated := task.Clone()
	updated.Status = status
	if status == models.StatusCompleted {
		for i := range updated.TodoChecklist {
			updated.TodoChecklist[i].Completed = true
		}
		updated.Progress = 100
	}

	return s.replaceIfChanged(ctx, task, updated, "STATUS_UPDATED")
}

// ApplyFields edits structural fields. Absent fields are left unchanged and
// status and progress are never touched here, even when the checklist is
// replaced.
func (s *ReconcilerService) ApplyFields(ctx context.Context, caller models.Caller, taskID primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !access.CanMutateStructure(caller, task) {
		return nil, apperrors.Forbidden("only admins can edit tasks")
	}

	updated := task.Clone()
	if title, ok := patch.Title.Get(); ok {
		if updated.Title, err = requireText(title, "task title is required"); err != nil {
			return nil, err
		}
	}
	if description, ok := patch.Description.Get(); ok {
		if updated.Description, err = requireText(description, "task description is required"); err != nil {
			return nil, err
		}
	}
	if priority, ok := patch.Priority.Get(); ok {
		if updated.Priority, err = parsePriority(priority); err != nil {
			return nil, err
		}
	}
	if dueDate, ok := patch.DueDate.Get(); ok {
		if dueDate.IsZero() {
			return nil, apperrors.InvalidArgument("due date is required")
		}
		updated.DueDate = dueDate
	}
	if assignees, ok := patch.AssignedTo.Get(); ok {
		if updated.AssignedTo, err = requireAssignees(assignees); err != nil {
			return nil, err
		}
	}
	if checklist, ok := patch.TodoChecklist.Get(); ok {
		if len(checklist) == 0 {
			return nil, apperrors.InvalidArgument("at least one todo item is required")
		}
		if updated.TodoChecklist, err = cleanChecklist(checklist); err != nil {
			return nil, err
		}
	}
	if attachments, ok := patch.Attachments.Get(); ok {
		updated.Attachments = cleanAttachments(attachments)
	}
	updated.UpdatedAt = s.now()

	saved, err := s.store.Replace(ctx, updated)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task %s updated by %s", taskID.Hex(), caller.ID.Hex())
	return saved, nil
}

// DeleteTask removes a task.
func (s *ReconcilerService) DeleteTask(ctx context.Context, caller models.Caller, taskID primitive.ObjectID) error {
	task, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if !access.CanMutateStructure(caller, task) {
		return apperrors.Forbidden("only admins can delete tasks")
	}
	if err := s.store.Delete(ctx, taskID); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", taskID.Hex(), caller.ID.Hex())
	return nil
}

// replaceIfChanged writes updated unless it carries the same checklist,
// progress and status as the stored task. The flag reports whether it wrote.
func (s *ReconcilerService) replaceIfChanged(ctx context.Context, current, updated *models.Task, event string) (*models.Task, bool, error) {
	if current.Status == updated.Status &&
		current.Progress == updated.Progress &&
		slices.Equal(current.TodoChecklist, updated.TodoChecklist) {
		return current, false, nil
	}

	updated.UpdatedAt = s.now()
	saved, err := s.store.Replace(ctx, updated)
	if err != nil {
		return nil, false, err
	}
	logging.Logger.Infof("Event ID: %s, Description: Task %s now %s at %d%%", event, saved.ID.Hex(), saved.Status, saved.Progress)
	return saved, true, nil
}

func requireText(value, message string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.InvalidArgument("%s", message)
	}
	return value, nil
}

func parsePriority(label string) (models.TaskPriority, error) {
	priority, ok := models.CanonicalPriority(label)
	if !ok {
		return "", apperrors.InvalidArgument("invalid priority %q", label)
	}
	return priority, nil
}

func requireAssignees(ids models.Assignees) ([]primitive.ObjectID, error) {
	unique := ids.Dedupe()
	if len(unique) == 0 {
		return nil, apperrors.InvalidArgument("at least one assignee is required")
	}
	for _, id := range unique {
		if id.IsZero() {
			return nil, apperrors.InvalidArgument("invalid assignee id")
		}
	}
	return unique, nil
}

// cleanChecklist copies items, trimming text. Items without text are rejected.
func cleanChecklist(items []models.ChecklistItem) ([]models.ChecklistItem, error) {
	checklist := make([]models.ChecklistItem, 0, len(items))
	for i, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, apperrors.InvalidArgument("todo item %d has no text", i+1)
		}
		checklist = append(checklist, models.ChecklistItem{Text: text, Completed: item.Completed})
	}
	return checklist, nil
}

func cleanAttachments(attachments []string) []string {
	out := make([]string, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment = strings.TrimSpace(attachment); attachment != "" {
			out = append(out, attachment)
		}
	}
	return out
}
