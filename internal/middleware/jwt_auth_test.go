package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

const testSecret = "test-secret"

func newAuthEnv(t *testing.T) (repositories.UserRepository, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqldb, err := db.DB()
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	users := repositories.NewUserRepository(db)
	user := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "irrelevant",
		IsActive: true,
	}
	require.NoError(t, users.Create(user))
	return users, user
}

func signToken(t *testing.T, user *models.User, secret string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *models.User) {
	t.Helper()
	e := echo.New()
	var seen *models.User
	handler := mw(func(c echo.Context) error {
		seen = UserFrom(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestJWTAuthValidToken(t *testing.T) {
	users, user := newAuthEnv(t)
	token := signToken(t, user, testSecret)

	rec, seen := runRequest(t, JWTAuth(testSecret, users), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
}

func TestJWTAuthMissingHeader(t *testing.T) {
	users, _ := newAuthEnv(t)

	rec, _ := runRequest(t, JWTAuth(testSecret, users), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	users, user := newAuthEnv(t)
	token := signToken(t, user, "other-secret")

	rec, _ := runRequest(t, JWTAuth(testSecret, users), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthInactiveAccount(t *testing.T) {
	users, user := newAuthEnv(t)
	user.IsActive = false
	require.NoError(t, users.Update(user))
	token := signToken(t, user, testSecret)

	rec, _ := runRequest(t, JWTAuth(testSecret, users), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTAuthAnonymous(t *testing.T) {
	users, _ := newAuthEnv(t)

	rec, seen := runRequest(t, OptionalJWTAuth(testSecret, users), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)
}

func TestOptionalJWTAuthBadTokenStillRejected(t *testing.T) {
	users, _ := newAuthEnv(t)

	rec, _ := runRequest(t, OptionalJWTAuth(testSecret, users), "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
