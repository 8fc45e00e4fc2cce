package models

// Distribution maps canonical labels to task counts.
type Distribution map[string]int64

// DistributionAllKey is the status distribution entry holding the scope total.
const DistributionAllKey = "All"

type Statistics struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	OverdueTasks    int64 `json:"overdueTasks"`
}

type Charts struct {
	TaskDistribution   Distribution `json:"taskDistribution"`
	TaskPriorityLevels Distribution `json:"taskPriorityLevels"`
}

type Dashboard struct {
	Statistics  Statistics    `json:"statistics"`
	Charts      Charts        `json:"charts"`
	RecentTasks []TaskSummary `json:"recentTasks"`
}

type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

type TaskList struct {
	Tasks         []TaskView    `json:"tasks"`
	StatusSummary StatusSummary `json:"statusSummary"`
}
