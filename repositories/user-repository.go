package repositories

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserStore is the read-only view of users the tasks service needs.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error)
}

var withoutPassword = bson.M{"password": 0}

type MongoUserStore struct {
	usersCollection *mongo.Collection
}

func NewMongoUserStore(collection *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{usersCollection: collection}
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.usersCollection.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutPassword)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to retrieve user")
	}
	return &user, nil
}

func (s *MongoUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoUserStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	return s.find(ctx, bson.M{"role": bson.M{"$in": roles}})
}

func (s *MongoUserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.usersCollection.Find(ctx, filter, options.Find().SetProjection(withoutPassword))
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to retrieve users")
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, apperrors.Unavailable(err, "failed to decode users")
	}
	return users, nil
}

// MemoryUserStore keeps users in process.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserStore(users ...models.User) *MemoryUserStore {
	s := &MemoryUserStore{users: make(map[primitive.ObjectID]models.User)}
	for _, user := range users {
		s.Put(user)
	}
	return s
}

// Put adds or replaces a user, assigning an id when missing.
func (s *MemoryUserStore) Put(user models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = user
	return user
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return &user, nil
}

func (s *MemoryUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *MemoryUserStore) ListByRoles(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := []models.User{}
	for _, user := range s.users {
		for _, role := range roles {
			if user.Role == role {
				users = append(users, user)
				break
			}
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID.Hex() < users[j].ID.Hex() })
	return users, nil
}
