package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Optional distinguishes a field left out of a request from one sent with a
// zero value. A JSON null counts as left out.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = value
	o.Set = true
	return nil
}

// Get returns the value and whether it was present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// TaskPatch carries the structural fields of a full-field update.
type TaskPatch struct {
	Title         Optional[string]          `json:"title"`
	Description   Optional[string]          `json:"description"`
	TodoChecklist Optional[[]ChecklistItem] `json:"todoChecklist"`
	Attachments   Optional[[]string]        `json:"attachments"`
	Priority      Optional[string]          `json:"priority"`
	DueDate       Optional[time.Time]       `json:"dueDate"`
	AssignedTo    Optional[Assignees]       `json:"assignedTo"`
}

// Assignees is a list of user ids that only decodes from a JSON array.
type Assignees []primitive.ObjectID

func (a *Assignees) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return apperrors.InvalidArgument("invalid assignedTo format")
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return apperrors.InvalidArgument("invalid assignedTo format")
	}

	ids := make(Assignees, 0, len(raw))
	for _, hex := range raw {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return apperrors.InvalidArgument("invalid assignee id %q", hex)
		}
		ids = append(ids, id)
	}
	*a = ids
	return nil
}

// Dedupe returns the ids with duplicates removed, keeping first occurrences.
func (a Assignees) Dedupe() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(a))
	out := make([]primitive.ObjectID, 0, len(a))
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
