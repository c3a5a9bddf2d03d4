package container

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pomodoro-planner/config"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("STORE_DRIVER", config.StoreDriverMemory)
	t.Setenv("BCRYPT_COST", "4")
	return config.Load()
}

func TestNew_MemoryStore(t *testing.T) {
	cfg := memoryConfig(t)
	c, err := New(context.Background(), cfg, helpers.NopLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Memory)
	assert.Nil(t, c.Pool)
	assert.Nil(t, c.Redis)
	assert.Nil(t, c.ES)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NotNil(t, c.AuthService)
	assert.True(t, c.JWT.IgnoreAccessExpiration)
	assert.Equal(t, "localhost", c.Cookie.Domain)
}

func TestNew_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_ADDR", mr.Addr())
	cfg := memoryConfig(t)

	c, err := New(context.Background(), cfg, helpers.NopLogger())
	require.NoError(t, err)
	defer c.Close()
	require.NotNil(t, c.Redis)
	assert.NoError(t, helpers.PingRedis(context.Background(), c.Redis))
}

func TestNew_UnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := New(context.Background(), config.Load(), helpers.NopLogger())
	assert.Error(t, err)
}
