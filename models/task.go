package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChecklistItem struct {
	Text      string `json:"text" bson:"text"`
	Completed bool   `json:"completed" bson:"completed"`
}

type Task struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Title         string               `json:"title" bson:"title"`
	Description   string               `json:"description" bson:"description"`
	Priority      TaskPriority         `json:"priority" bson:"priority"`
	Status        TaskStatus           `json:"status" bson:"status"`
	DueDate       time.Time            `json:"dueDate" bson:"dueDate"`
	CreatedBy     primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	AssignedTo    []primitive.ObjectID `json:"assignedTo" bson:"assignedTo"`
	TodoChecklist []ChecklistItem      `json:"todoChecklist" bson:"todoChecklist"`
	Progress      int                  `json:"progress" bson:"progress"`
	Attachments   []string             `json:"attachments" bson:"attachments"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// IsAssignedTo reports whether userID is among the task's assignees.
func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// NormalizeLabels rewrites status and priority to their canonical spelling.
// Labels outside the known table are left untouched.
func (t *Task) NormalizeLabels() {
	if status, ok := CanonicalStatus(string(t.Status)); ok {
		t.Status = status
	}
	if priority, ok := CanonicalPriority(string(t.Priority)); ok {
		t.Priority = priority
	}
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.AssignedTo != nil {
		c.AssignedTo = append(make([]primitive.ObjectID, 0, len(t.AssignedTo)), t.AssignedTo...)
	}
	if t.TodoChecklist != nil {
		c.TodoChecklist = append(make([]ChecklistItem, 0, len(t.TodoChecklist)), t.TodoChecklist...)
	}
	if t.Attachments != nil {
		c.Attachments = append(make([]string, 0, len(t.Attachments)), t.Attachments...)
	}
	return &c
}

// TaskView is a task as returned to readers, with fields derived at read time.
// AssignedTo shadows the stored ids so clients receive user objects under the
// same key they send ids in.
type TaskView struct {
	*Task
	AssignedTo         []UserSummary `json:"assignedTo"`
	CompletedTodoCount int           `json:"completedTodoCount"`
}

// NewTaskView carries each assignee as an id-only summary until the users
// are resolved.
func NewTaskView(task *Task) TaskView {
	assignees := make([]UserSummary, 0, len(task.AssignedTo))
	for _, id := range task.AssignedTo {
		assignees = append(assignees, UserSummary{ID: id})
	}
	return TaskView{
		Task:               task,
		AssignedTo:         assignees,
		CompletedTodoCount: CompletedCount(task.TodoChecklist),
	}
}

// TaskSummary is the projection used by recent-task feeds.
type TaskSummary struct {
	Title     string       `json:"title" bson:"title"`
	Status    TaskStatus   `json:"status" bson:"status"`
	Priority  TaskPriority `json:"priority" bson:"priority"`
	DueDate   time.Time    `json:"dueDate" bson:"dueDate"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
}

func NewTaskSummary(task *Task) TaskSummary {
	return TaskSummary{
		Title:     task.Title,
		Status:    task.Status,
		Priority:  task.Priority,
		DueDate:   task.DueDate,
		CreatedAt: task.CreatedAt,
	}
}

// NewTask is the input for task creation.
type NewTask struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      string          `json:"priority"`
	DueDate       *time.Time      `json:"dueDate"`
	AssignedTo    Assignees       `json:"assignedTo"`
	TodoChecklist []ChecklistItem `json:"todoChecklist"`
	Attachments   []string        `json:"attachments"`
}
