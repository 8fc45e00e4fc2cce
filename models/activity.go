package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityType string

const (
	ActivityCreateTask       ActivityType = "CreateTask"
	ActivityUpdateTask       ActivityType = "UpdateTask"
	ActivityDeleteTask       ActivityType = "DeleteTask"
	ActivityChangeTaskStatus ActivityType = "ChangeTaskStatus"
	ActivityUpdateChecklist  ActivityType = "UpdateChecklist"
)

type TaskActivity struct {
	ID           string             `json:"id"`
	TaskID       primitive.ObjectID `json:"taskId"`
	ActorID      primitive.ObjectID `json:"actorId"`
	ActivityType ActivityType       `json:"activityType"`
	Timestamp    time.Time          `json:"timestamp"`
	Details      string             `json:"details"`
}
