package services

import (
	"github.com/Yash-Soni1/node-crew/access"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/repositories"
)

// ScopeFor returns the set of tasks visible to caller: every task for
// admins, the caller's assigned tasks for everyone else.
func ScopeFor(caller models.Caller) repositories.TaskCriteria {
	if access.CanViewAll(caller) {
		return repositories.AllTasks()
	}
	return repositories.AssignedTasks(caller.ID)
}

// foldStatuses merges raw status groups into canonical buckets. Every
// canonical key is present in the result.
func foldStatuses(groups map[string]int64) models.Distribution {
	dist := make(models.Distribution, len(models.Statuses)+1)
	for _, status := range models.Statuses {
		dist[string(status)] = 0
	}
	for label, count := range groups {
		status, ok := models.CanonicalStatus(label)
		if !ok {
			logging.Logger.Warnf("Event ID: UNKNOWN_STATUS_LABEL, Description: %d task(s) carry unknown status %q", count, label)
			continue
		}
		dist[string(status)] += count
	}
	return dist
}

// foldPriorities merges raw priority groups into canonical buckets.
func foldPriorities(groups map[string]int64) models.Distribution {
	dist := make(models.Distribution, len(models.Priorities))
	for _, priority := range models.Priorities {
		dist[string(priority)] = 0
	}
	for label, count := range groups {
		priority, ok := models.CanonicalPriority(label)
		if !ok {
			logging.Logger.Warnf("Event ID: UNKNOWN_PRIORITY_LABEL, Description: %d task(s) carry unknown priority %q", count, label)
			continue
		}
		dist[string(priority)] += count
	}
	return dist
}
