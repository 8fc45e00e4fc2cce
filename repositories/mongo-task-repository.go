package repositories

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTaskStore struct {
	tasksCollection *mongo.Collection
}

func NewMongoTaskStore(collection *mongo.Collection) *MongoTaskStore {
	return &MongoTaskStore{tasksCollection: collection}
}

// taskFilter translates criteria into a Mongo filter. Status conditions match
// every stored spelling that normalizes to the requested canonical label.
func taskFilter(c TaskCriteria) bson.M {
	filter := bson.M{}
	if c.AssignedTo != nil {
		filter["assignedTo"] = *c.AssignedTo
	}

	status := bson.M{}
	if len(c.Statuses) > 0 {
		status["$in"] = statusPatterns(c.Statuses)
	}
	if len(c.ExcludeStatuses) > 0 {
		status["$nin"] = statusPatterns(c.ExcludeStatuses)
	}
	if len(status) > 0 {
		filter["status"] = status
	}

	if c.DueBefore != nil {
		filter["dueDate"] = bson.M{"$lt": *c.DueBefore}
	}
	return filter
}

func statusPatterns(statuses []models.TaskStatus) bson.A {
	patterns := bson.A{}
	for _, status := range statuses {
		patterns = append(patterns, labelPattern(status.Key()))
	}
	return patterns
}

const labelSeparators = `[\s_-]*`

// labelPattern matches any spelling whose LabelKey equals key.
func labelPattern(key string) primitive.Regex {
	parts := make([]string, 0, len(key))
	for _, r := range key {
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return primitive.Regex{
		Pattern: "^" + labelSeparators + strings.Join(parts, labelSeparators) + labelSeparators + "$",
		Options: "i",
	}
}

func (s *MongoTaskStore) Find(ctx context.Context, criteria TaskCriteria, opts FindOptions) ([]*models.Task, error) {
	findOpts := options.Find()
	if opts.SortByCreatedDesc {
		findOpts.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.tasksCollection.Find(ctx, taskFilter(criteria), findOpts)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to retrieve tasks")
	}
	defer cursor.Close(ctx)

	tasks := []*models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, apperrors.Unavailable(err, "failed to decode task")
		}
		task.NormalizeLabels()
		tasks = append(tasks, &task)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Unavailable(err, "cursor error")
	}
	return tasks, nil
}

func (s *MongoTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.tasksCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("task not found")
	}
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to retrieve task")
	}
	task.NormalizeLabels()
	return &task, nil
}

func (s *MongoTaskStore) CountWhere(ctx context.Context, criteria TaskCriteria) (int64, error) {
	count, err := s.tasksCollection.CountDocuments(ctx, taskFilter(criteria))
	if err != nil {
		return 0, apperrors.Unavailable(err, "failed to count tasks")
	}
	return count, nil
}

func (s *MongoTaskStore) GroupCount(ctx context.Context, field GroupField, criteria TaskCriteria) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: taskFilter(criteria)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + string(field),
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.tasksCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to group tasks by %s", field)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Label string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperrors.Unavailable(err, "failed to decode %s groups", field)
	}

	groups := make(map[string]int64, len(rows))
	for _, row := range rows {
		groups[row.Label] += row.Count
	}
	return groups, nil
}

func (s *MongoTaskStore) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if _, err := s.tasksCollection.InsertOne(ctx, task); err != nil {
		return nil, apperrors.Unavailable(err, "failed to create task")
	}
	return task, nil
}

func (s *MongoTaskStore) Replace(ctx context.Context, task *models.Task) (*models.Task, error) {
	result, err := s.tasksCollection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to update task")
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.NotFound("task not found")
	}
	return task, nil
}

func (s *MongoTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.tasksCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Unavailable(err, "failed to delete task")
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("task not found")
	}
	return nil
}
