package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Yash-Soni1/node-crew/cache"
	"github.com/Yash-Soni1/node-crew/config"
	"github.com/Yash-Soni1/node-crew/handlers"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/repositories"
	"github.com/Yash-Soni1/node-crew/services"
	"github.com/Yash-Soni1/node-crew/services/commands"
	"github.com/Yash-Soni1/node-crew/services/queries"
	"github.com/Yash-Soni1/node-crew/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// app holds the wired services and the resources to release on exit.
type app struct {
	tasks       *services.TaskService
	reconciler  *services.ReconcilerService
	aggregation *services.AggregationService
	users       *services.UserService
	commands    *commands.TaskCommandHandler
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) Handler() http.Handler {
	taskHandler := handlers.NewTaskHandler(
		a.tasks,
		a.commands,
		queries.NewGetDashboardHandler(a.aggregation),
		queries.NewGetTaskActivityHandler(a.tasks),
	)
	return handlers.NewRouter(taskHandler, handlers.NewUserHandler(a.users))
}

func newApp(cfg *config.Config, withCache bool) (*app, error) {
	utils.SetSecret(cfg.JWTSecret)
	a := &app{}

	var (
		taskStore repositories.TaskStore
		userStore repositories.UserStore
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logging.Logger.Warn("Event ID: MEMORY_STORE, Description: Using in-memory task store, data is lost on exit")
		taskStore = repositories.NewMemoryTaskStore()
		userStore = repositories.NewMemoryUserStore()
	default:
		client, err := connectMongo(cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
			}
		})

		db := client.Database(cfg.Mongo.DBName)
		logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collections: %s/%s, %s/%s",
			cfg.Mongo.DBName, cfg.Mongo.TasksCollection, cfg.Mongo.DBName, cfg.Mongo.UsersCollection)
		taskStore = repositories.NewBreakerTaskStore(
			repositories.NewMongoTaskStore(db.Collection(cfg.Mongo.TasksCollection)),
			cfg.Breaker.MaxFailures, cfg.Breaker.Timeout,
		)
		userStore = repositories.NewBreakerUserStore(
			repositories.NewMongoUserStore(db.Collection(cfg.Mongo.UsersCollection)),
			cfg.Breaker.MaxFailures, cfg.Breaker.Timeout,
		)
	}

	var activity repositories.ActivityLog = repositories.NewMemoryActivityLog()
	if len(cfg.Cassandra.Hosts) > 0 {
		log, err := repositories.NewCassandraActivityLog(cfg.Cassandra.Hosts, cfg.Cassandra.Keyspace)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, log.Close)
		activity = log
	}

	var dashboardCache *cache.DashboardCache
	if withCache && cfg.RedisURL != "" {
		c, err := cache.NewDashboardCache(cfg.RedisURL, cfg.DashboardCacheTTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		logging.Logger.Infof("Event ID: REDIS_CONNECTED, Description: Dashboard cache enabled with TTL %s", cfg.DashboardCacheTTL)
		a.closers = append(a.closers, func() { c.Close() })
		dashboardCache = c
	}

	a.tasks = services.NewTaskService(taskStore, userStore, activity)
	a.reconciler = services.NewReconcilerService(taskStore)
	a.users = services.NewUserService(userStore, taskStore)
	if dashboardCache != nil {
		a.aggregation = services.NewAggregationService(taskStore, dashboardCache, cfg.RecentTasksLimit)
		a.commands = commands.NewTaskCommandHandler(a.reconciler, activity, dashboardCache)
	} else {
		a.aggregation = services.NewAggregationService(taskStore, nil, cfg.RecentTasksLimit)
		a.commands = commands.NewTaskCommandHandler(a.reconciler, activity, nil)
	}
	return a, nil
}

func connectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database connection for MongoDB failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("MongoDB connection ping error: %w", err)
	}
	logging.Logger.Info("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB")
	return client, nil
}
