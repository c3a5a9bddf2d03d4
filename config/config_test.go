package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")

	cfg := Load()

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.True(t, cfg.JWTIgnoreExpiration)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_NodeEnvFallback(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("DOMAIN", "planner.example.com")
	t.Setenv("JWT_REFRESH_TTL", "not-a-duration")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "planner.example.com", cfg.Domain)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSOrigin: " http://a.test, ,http://b.test "}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, (&Config{}).ESAddrs())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
