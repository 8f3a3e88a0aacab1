package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campuseats/backend/internal/authz"
	"github.com/campuseats/backend/internal/config"
	"github.com/campuseats/backend/internal/dto"
	"github.com/campuseats/backend/internal/models"
	"github.com/campuseats/backend/internal/token"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
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

func newGuardedApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	app.Get("/protected", Protected(cfg), RequireUser(db), func(c *fiber.Ctx) error {
		user, err := authz.User(c)
		if err != nil {
			return fiber.ErrInternalServerError
		}
		return c.JSON(fiber.Map{"id": user.ID, "role": user.Role})
	})
	return app
}

func issueTestToken(t *testing.T, secret string, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()

	signed, err := token.Issue([]byte(secret), token.Claims{
		Name:  "Test User",
		Email: "test@campus.edu",
		Role:  models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		},
	}, ttl)
	require.NoError(t, err)
	return signed
}

func userRows(userID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "google_id", "name", "email", "role", "canteen_id",
		"is_verified", "is_banned", "created_at", "updated_at", "deleted_at",
	}).AddRow(userID.String(), nil, "Test User", "test@campus.edu",
		models.RoleStudent, nil, true, false, now, now, nil)
}

func decodeAuthError(t *testing.T, resp *http.Response) dto.AuthErrorResponse {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.AuthErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestGuard_NoToken(t *testing.T) {
	db, _ := newTestDB(t)
	app := newGuardedApp(t, db)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	out := decodeAuthError(t, resp)
	assert.Equal(t, "Not authorized, no token", out.Message)
	assert.Empty(t, out.Code)
}

func TestGuard_MalformedToken(t *testing.T) {
	db, _ := newTestDB(t)
	app := newGuardedApp(t, db)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer abc.def.ghi")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	out := decodeAuthError(t, resp)
	assert.Equal(t, dto.CodeTokenInvalid, out.Code)
	assert.Nil(t, out.ExpiredAt)
}

func TestGuard_WrongSecret(t *testing.T) {
	db, _ := newTestDB(t)
	app := newGuardedApp(t, db)

	forged := issueTestToken(t, "another-secret", uuid.New(), time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+forged)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	out := decodeAuthError(t, resp)
	assert.Equal(t, dto.CodeTokenInvalid, out.Code, "forged signature must report invalid, not expired")
}

func TestGuard_ExpiredToken(t *testing.T) {
	db, _ := newTestDB(t)
	app := newGuardedApp(t, db)

	expired := issueTestToken(t, testSecret, uuid.New(), -time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+expired)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	out := decodeAuthError(t, resp)
	assert.Equal(t, dto.CodeTokenExpired, out.Code)
	require.NotNil(t, out.ExpiredAt, "expired response must carry the original expiry")
	assert.WithinDuration(t, time.Now().Add(-time.Minute), *out.ExpiredAt, time.Minute)
}

func TestGuard_ValidToken_ResolvesUser(t *testing.T) {
	db, mock := newTestDB(t)
	app := newGuardedApp(t, db)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(userRows(userID))

	valid := issueTestToken(t, testSecret, userID, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+valid)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		ID   uuid.UUID `json:"id"`
		Role string    `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, userID, out.ID, "guard must resolve the same user id encoded at issuance")
	assert.Equal(t, models.RoleStudent, out.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGuard_UserDeletedAfterIssuance(t *testing.T) {
	db, mock := newTestDB(t)
	app := newGuardedApp(t, db)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	valid := issueTestToken(t, testSecret, userID, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+valid)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	out := decodeAuthError(t, resp)
	assert.Equal(t, "Not authorized", out.Message)
	assert.Empty(t, out.Code, "a vanished account must not leak details to the client")
}

func TestGuard_BannedUser(t *testing.T) {
	db, mock := newTestDB(t)
	app := newGuardedApp(t, db)

	userID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "google_id", "name", "email", "role", "canteen_id",
		"is_verified", "is_banned", "created_at", "updated_at", "deleted_at",
	}).AddRow(userID.String(), nil, "Banned", "banned@campus.edu",
		models.RoleStudent, nil, true, true, now, now, nil)
	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnRows(rows)

	valid := issueTestToken(t, testSecret, userID, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+valid)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	cfg := &config.Config{AdminEmails: "root@campus.edu"}

	cases := []struct {
		name   string
		user   *models.User
		roles  []string
		status int
	}{
		{"role allowed", &models.User{Role: models.RoleCampusStore, Email: "s@c.e"}, []string{models.RoleCampusStore}, http.StatusOK},
		{"role denied", &models.User{Role: models.RoleStudent, Email: "s@c.e"}, []string{models.RoleAdmin}, http.StatusForbidden},
		{"bootstrap admin email", &models.User{Role: models.RoleStudent, Email: "root@campus.edu"}, []string{models.RoleAdmin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/gated", func(c *fiber.Ctx) error {
				authz.SetUser(c, tc.user)
				return c.Next()
			}, RequireRole(cfg, tc.roles...), func(c *fiber.Ctx) error {
				return c.SendStatus(http.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gated", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
