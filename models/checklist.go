package models

// CompletedCount returns the number of completed checklist items.
func CompletedCount(items []ChecklistItem) int {
	count := 0
	for _, item := range items {
		if item.Completed {
			count++
		}
	}
	return count
}

// ComputeProgress returns round(100*completed/total) with halves rounded up,
// or 0 for an empty checklist.
func ComputeProgress(items []ChecklistItem) int {
	total := len(items)
	if total == 0 {
		return 0
	}
	return (200*CompletedCount(items) + total) / (2 * total)
}

// StatusForProgress derives the status a given progress implies.
func StatusForProgress(progress int) TaskStatus {
	switch {
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}
