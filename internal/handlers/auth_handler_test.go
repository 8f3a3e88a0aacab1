package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/models"
	"github.com/campuseats/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const frontendURL = "https://eats.campus.edu"

type stubGoogle struct {
	profile *services.GoogleProfile
	err     error
}

func (s *stubGoogle) LoginURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + url.QueryEscape(state)
}

func (s *stubGoogle) Authenticate(_ context.Context, _ string) (*services.GoogleProfile, error) {
	return s.profile, s.err
}

func newAuthTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func newAuthApp(t *testing.T, db *gorm.DB, google services.GoogleAuthenticator) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTOAuthExpiry: time.Hour,
		JWTLoginExpiry: 24 * time.Hour,
		FrontendURL:    frontendURL,
	}
	h := NewAuthHandler(services.NewAuthService(db, cfg), google, cfg)

	app := fiber.New()
	app.Get("/auth/google", h.GoogleLogin)
	app.Get("/auth/google/callback", h.GoogleCallback)
	return app
}

func TestGoogleLogin_RedirectsWithState(t *testing.T) {
	db, _ := newAuthTestDB(t)
	app := newAuthApp(t, db, &stubGoogle{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "state=")

	var state string
	for _, c := range resp.Cookies() {
		if c.Name == stateCookie {
			state = c.Value
		}
	}
	require.NotEmpty(t, state, "state cookie must be set for the callback check")
	assert.Contains(t, location, url.QueryEscape(state))
}

func TestGoogleCallback_Success(t *testing.T) {
	db, mock := newAuthTestDB(t)

	userID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "google_id", "name", "email", "password", "role", "canteen_id",
			"is_verified", "is_banned", "created_at", "updated_at", "deleted_at",
		}).AddRow(userID.String(), "google-sub-1", "Grace", "grace@campus.edu",
			nil, models.RoleStudent, nil, true, false, now, now, nil))

	app := newAuthApp(t, db, &stubGoogle{profile: &services.GoogleProfile{
		Sub:   "google-sub-1",
		Email: "grace@campus.edu",
		Name:  "Grace",
	}})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=authcode&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "xyz"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(location, frontendURL+"/auth/callback?token="),
		"successful login must redirect to the frontend with the token, got %q", location)
	assert.NotEqual(t, frontendURL+"/auth/callback?token=", location, "token must not be empty")
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	db, _ := newAuthTestDB(t)
	app := newAuthApp(t, db, &stubGoogle{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=authcode&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "xyz"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, frontendURL+"/login?error=state_mismatch", resp.Header.Get("Location"))
}

func TestGoogleCallback_ProviderDenied(t *testing.T) {
	db, _ := newAuthTestDB(t)
	app := newAuthApp(t, db, &stubGoogle{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, frontendURL+"/login?error=access_denied", resp.Header.Get("Location"))
}

func TestGoogleCallback_ExchangeFailureDoesNotLeak(t *testing.T) {
	db, _ := newAuthTestDB(t)
	app := newAuthApp(t, db, &stubGoogle{err: errors.New("oauth2: invalid_grant (secret exposed here)")})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=bad&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "xyz"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	location := resp.Header.Get("Location")
	assert.Equal(t, frontendURL+"/login?error=auth_failed", location,
		"raw provider errors must never reach the browser")
}

func TestGoogleCallback_IdentityConflict(t *testing.T) {
	db, mock := newAuthTestDB(t)

	columns := []string{
		"id", "google_id", "name", "email", "password", "role", "canteen_id",
		"is_verified", "is_banned", "created_at", "updated_at", "deleted_at",
	}
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows(columns))

	app := newAuthApp(t, db, &stubGoogle{profile: &services.GoogleProfile{
		Sub:   "google-sub-9",
		Email: "taken@campus.edu",
	}})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=authcode&state=xyz", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "xyz"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, frontendURL+"/login?error=identity_conflict", resp.Header.Get("Location"))
}
