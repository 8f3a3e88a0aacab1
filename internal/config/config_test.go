package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "campus_eats", cfg.DBName)
	assert.Equal(t, time.Hour, cfg.JWTOAuthExpiry)
	assert.Equal(t, 24*time.Hour, cfg.JWTLoginExpiry)
	assert.Equal(t, "*", cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_OAUTH_EXPIRY", "30m")
	t.Setenv("JWT_LOGIN_EXPIRY", "72h")
	t.Setenv("FRONTEND_URL", "https://eats.campus.edu")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTOAuthExpiry)
	assert.Equal(t, 72*time.Hour, cfg.JWTLoginExpiry)
	assert.Equal(t, "https://eats.campus.edu", cfg.FrontendURL)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_OAUTH_EXPIRY", "not-a-duration")

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.JWTOAuthExpiry)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "app",
		DBPassword: "pw",
		DBName:     "campus_eats",
		DBSSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal user=app password=pw dbname=campus_eats port=5433 sslmode=require TimeZone=UTC",
		cfg.DSN())
}
