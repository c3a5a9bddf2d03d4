package application

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-pomodoro-planner/internal/infrastructure/memory"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

type testEnv struct {
	store     *memory.Store
	jwt       *helpers.JWTManager
	users     *UserService
	auth      *AuthService
	tasks     *TaskService
	blocks    *TimeBlockService
	pomodoros *PomodoroService
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	logger := helpers.NopLogger()
	hasher := helpers.NewBcryptHasher(bcrypt.MinCost)
	jwt := helpers.NewJWTManager("test-secret", time.Hour, 7*24*time.Hour, true)
	cookie := helpers.NewRefreshCookie(false, "", 7*24*time.Hour)

	users := NewUserService(store.Users(), store.Tasks(), hasher, logger)
	return &testEnv{
		store:     store,
		jwt:       jwt,
		users:     users,
		auth:      NewAuthService(users, jwt, hasher, cookie, logger),
		tasks:     NewTaskService(store.Tasks(), nil, logger),
		blocks:    NewTimeBlockService(store.TimeBlocks(), logger),
		pomodoros: NewPomodoroService(store.Pomodoro(), users, logger),
	}
}
