// Package container builds the application graph once at startup and hands it
// to the router; nothing in it is global.
package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/config"
	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	repo "github.com/oksasatya/go-pomodoro-planner/internal/domain/repository"
	"github.com/oksasatya/go-pomodoro-planner/internal/infrastructure/elastic"
	"github.com/oksasatya/go-pomodoro-planner/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-pomodoro-planner/internal/infrastructure/postgres"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Pool   *pgxpool.Pool
	Memory *memory.Store
	Redis  *redis.Client
	ES     *elasticsearch.Client

	JWT    *helpers.JWTManager
	Cookie *helpers.RefreshCookie

	Users      repo.UserRepository
	Tasks      repo.TaskRepository
	TimeBlocks repo.TimeBlockRepository
	Pomodoros  repo.PomodoroRepository

	UserService      *application.UserService
	AuthService      *application.AuthService
	TaskService      *application.TaskService
	TimeBlockService *application.TimeBlockService
	PomodoroService  *application.PomodoroService
}

// New connects the configured store and optional redis/elasticsearch clients,
// then wires the services. Close releases whatever was opened.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		c.Memory = memory.NewStore()
		c.Users = c.Memory.Users()
		c.Tasks = c.Memory.Tasks()
		c.TimeBlocks = c.Memory.TimeBlocks()
		c.Pomodoros = c.Memory.Pomodoro()
		logger.Warn("using in-memory store; data is lost on restart")
	case config.StoreDriverPostgres:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.Pool = pool
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Tasks = pginfra.NewTaskRepository(pool)
		c.TimeBlocks = pginfra.NewTimeBlockRepository(pool)
		c.Pomodoros = pginfra.NewPomodoroRepository(pool)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	c.Redis = helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, c.Redis); err != nil {
		logger.WithError(err).Warn("redis unreachable; rate limiting fails open until it recovers")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	c.ES = es

	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg := c.Config
	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.JWTIgnoreExpiration)
	c.Cookie = helpers.NewRefreshCookie(cfg.IsProduction(), cfg.Domain, cfg.RefreshTTL)
	hasher := helpers.NewBcryptHasher(cfg.BcryptCost)

	var index application.TaskIndexer
	if c.ES != nil {
		index = elastic.NewTaskIndex(c.ES, cfg.ESTasksIndex, c.Logger)
	}

	c.UserService = application.NewUserService(c.Users, c.Tasks, hasher, c.Logger)
	c.AuthService = application.NewAuthService(c.UserService, c.JWT, hasher, c.Cookie, c.Logger)
	c.TaskService = application.NewTaskService(c.Tasks, index, c.Logger)
	c.TimeBlockService = application.NewTimeBlockService(c.TimeBlocks, c.Logger)
	c.PomodoroService = application.NewPomodoroService(c.Pomodoros, c.UserService, c.Logger)
}

// Ping checks the store used by /health.
func (c *Container) Ping(ctx context.Context) error {
	if c.Pool != nil {
		return c.Pool.Ping(ctx)
	}
	if c.Memory != nil {
		return c.Memory.Ping(ctx)
	}
	return fmt.Errorf("no store configured")
}

func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.WithError(err).Warn("redis close failed")
		}
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
