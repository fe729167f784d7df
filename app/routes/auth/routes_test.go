package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maia-sss/app/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	token, err := GenerateJWT(&models.User{ID: "user-1", Email: "dana@school.org"})
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: token})
	return req
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	msg, _ := body["error"].(string)
	return msg
}

func TestAuthMiddleware_APIWithoutToken(t *testing.T) {
	app := fiber.New()
	app.Get("/api/cases", AuthMiddleware, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/cases", nil))
	require.NoError(t, err)

	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Unauthorized - Please log in", decodeError(t, resp))
}

func TestAuthMiddleware_PageRedirectsWithDestination(t *testing.T) {
	app := fiber.New()
	app.Get("/cases", AuthMiddleware, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/cases", nil))
	require.NoError(t, err)

	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/login?redirectTo=/cases", resp.Header.Get("Location"))
}

func TestAuthMiddleware_ValidCookieSetsContext(t *testing.T) {
	app := fiber.New()
	app.Get("/api/whoami", AuthMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "email": c.Locals("user_email")})
	})

	resp, err := app.Test(authedRequest(t, "GET", "/api/whoami"))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, "dana@school.org", body["email"])
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/api/whoami", AuthMiddleware, func(c *fiber.Ctx) error { return c.SendString("ok") })

	token, err := GenerateJWT(&models.User{ID: "user-1", Email: "dana@school.org"})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuthMiddleware_RefreshesExpiringSession(t *testing.T) {
	claims := JWTClaims{
		UserID: "user-1",
		Email:  "dana@school.org",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "maia-sss",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/api/whoami", AuthMiddleware, func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: token})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var refreshed string
	for _, cookie := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(cookie, "jwt_token=") {
			refreshed = cookie
		}
	}
	require.NotEmpty(t, refreshed, "expected a reissued jwt_token cookie")
	assert.NotContains(t, refreshed, "jwt_token="+token)
}

func TestAuthMiddleware_FreshSessionNotReissued(t *testing.T) {
	app := fiber.New()
	app.Get("/api/whoami", AuthMiddleware, func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(authedRequest(t, "GET", "/api/whoami"))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	for _, cookie := range resp.Header.Values("Set-Cookie") {
		assert.False(t, strings.HasPrefix(cookie, "jwt_token="))
	}
}

func TestRequireStaff_AllowsStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("SSS_STAFF"))

	app := fiber.New()
	app.Post("/api/cases", AuthMiddleware, RequireStaff(db, "create cases"),
		func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(authedRequest(t, "POST", "/api/cases"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRequireStaff_ForbidsOtherRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("TEACHER"))

	app := fiber.New()
	app.Post("/api/cases", AuthMiddleware, RequireStaff(db, "create cases"),
		func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(authedRequest(t, "POST", "/api/cases"))
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "Forbidden - Only SSS staff can create cases", decodeError(t, resp))
}

func TestRequireStaff_MissingProfileIs404(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	app := fiber.New()
	app.Post("/api/cases", AuthMiddleware, RequireStaff(db, "create cases"),
		func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(authedRequest(t, "POST", "/api/cases"))
	require.NoError(t, err)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "User not found", decodeError(t, resp))
}

func TestRequireStaff_NullRoleIsForbidden(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT role FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(nil))

	app := fiber.New()
	app.Delete("/api/cases/:id", AuthMiddleware, RequireStaff(db, "delete cases"),
		func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(authedRequest(t, "DELETE", "/api/cases/case-1"))
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "Forbidden - Only SSS staff can delete cases", decodeError(t, resp))
}
