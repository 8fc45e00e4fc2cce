package models

import (
	"strings"
	"unicode"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Statuses lists the canonical statuses in display order.
var Statuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Priorities lists the canonical priorities in display order.
var Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// Stored data carries several spellings of the same label ("Completed",
// "In Progress", "inProgress"). Every spelling reduces to one key through
// LabelKey, and the key maps to exactly one canonical label.
var (
	statusByKey = map[string]TaskStatus{
		"pending":    StatusPending,
		"inprogress": StatusInProgress,
		"completed":  StatusCompleted,
	}
	priorityByKey = map[string]TaskPriority{
		"low":    PriorityLow,
		"medium": PriorityMedium,
		"high":   PriorityHigh,
	}
)

// LabelKey lower-cases a label and drops whitespace, hyphens and underscores.
func LabelKey(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CanonicalStatus maps any known spelling of a status to its canonical label.
func CanonicalStatus(label string) (TaskStatus, bool) {
	status, ok := statusByKey[LabelKey(label)]
	return status, ok
}

// CanonicalPriority maps any known spelling of a priority to its canonical label.
func CanonicalPriority(label string) (TaskPriority, bool) {
	priority, ok := priorityByKey[LabelKey(label)]
	return priority, ok
}

// Key returns the normalization key of a canonical status.
func (s TaskStatus) Key() string {
	return LabelKey(string(s))
}

// Key returns the normalization key of a canonical priority.
func (p TaskPriority) Key() string {
	return LabelKey(string(p))
}
