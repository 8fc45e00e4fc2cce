package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/models"

	"github.com/gocql/gocql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityLog records who changed which task and how.
type ActivityLog interface {
	Record(ctx context.Context, activity models.TaskActivity) error
	ListByTask(ctx context.Context, taskID primitive.ObjectID, limit int) ([]models.TaskActivity, error)
}

type CassandraActivityLog struct {
	session *gocql.Session
}

// NewCassandraActivityLog connects to the cluster at hosts, creating the
// keyspace and activity table when missing.
func NewCassandraActivityLog(hosts []string, keyspace string) (*CassandraActivityLog, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cassandra: %w", err)
	}

	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
		 WITH replication = {
			 'class': 'SimpleStrategy',
			 'replication_factor': 1
		 }`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace %s: %w", keyspace, err)
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to keyspace %s: %w", keyspace, err)
	}

	repo := &CassandraActivityLog{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s", keyspace)
	return repo, nil
}

func (r *CassandraActivityLog) Close() {
	r.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_SESSION_CLOSED, Description: Cassandra session closed")
}

func (r *CassandraActivityLog) createTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS task_activity (
			task_id TEXT,
			created_at TIMESTAMP,
			id TIMEUUID,
			actor_id TEXT,
			activity_type TEXT,
			details TEXT,
			PRIMARY KEY ((task_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return fmt.Errorf("failed to create task_activity table: %w", err)
	}
	return nil
}

func (r *CassandraActivityLog) Record(ctx context.Context, activity models.TaskActivity) error {
	if activity.ID == "" {
		activity.ID = gocql.TimeUUID().String()
	}
	return r.session.Query(
		`INSERT INTO task_activity (task_id, created_at, id, actor_id, activity_type, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		activity.TaskID.Hex(), activity.Timestamp, activity.ID, activity.ActorID.Hex(), string(activity.ActivityType), activity.Details,
	).WithContext(ctx).Exec()
}

func (r *CassandraActivityLog) ListByTask(ctx context.Context, taskID primitive.ObjectID, limit int) ([]models.TaskActivity, error) {
	iter := r.session.Query(
		`SELECT id, actor_id, activity_type, details, created_at
		 FROM task_activity WHERE task_id = ? LIMIT ?`,
		taskID.Hex(), limit,
	).WithContext(ctx).Iter()

	activities := []models.TaskActivity{}
	var (
		id, actorHex, activityType, details string
		createdAt                           time.Time
	)
	for iter.Scan(&id, &actorHex, &activityType, &details, &createdAt) {
		actorID, _ := primitive.ObjectIDFromHex(actorHex)
		activities = append(activities, models.TaskActivity{
			ID:           id,
			TaskID:       taskID,
			ActorID:      actorID,
			ActivityType: models.ActivityType(activityType),
			Timestamp:    createdAt,
			Details:      details,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to read task activity: %w", err)
	}
	return activities, nil
}

// MemoryActivityLog keeps activity in process, newest first per task.
type MemoryActivityLog struct {
	mu     sync.Mutex
	byTask map[primitive.ObjectID][]models.TaskActivity
}

func NewMemoryActivityLog() *MemoryActivityLog {
	return &MemoryActivityLog{byTask: make(map[primitive.ObjectID][]models.TaskActivity)}
}

func (r *MemoryActivityLog) Record(ctx context.Context, activity models.TaskActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if activity.ID == "" {
		activity.ID = gocql.TimeUUID().String()
	}
	r.byTask[activity.TaskID] = append([]models.TaskActivity{activity}, r.byTask[activity.TaskID]...)
	return nil
}

func (r *MemoryActivityLog) ListByTask(ctx context.Context, taskID primitive.ObjectID, limit int) ([]models.TaskActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.byTask[taskID]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return append([]models.TaskActivity{}, entries...), nil
}
