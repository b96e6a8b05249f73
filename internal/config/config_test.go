package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
	assert.Equal(t, 15*time.Second, cfg.BillingTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("BILLING_TIMEOUT", "5s")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, 5*time.Second, cfg.BillingTimeout)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "secret",
		DBName:     "pawsteps_db",
		DBSSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=pawsteps_db")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestParseDuration_FallsBack(t *testing.T) {
	assert.Equal(t, 15*time.Minute, parseDuration("garbage"))
	assert.Equal(t, 90*time.Second, parseDuration("90s"))
}
