package users

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maia-sss/app/config"
	"maia-sss/app/models"
	"maia-sss/app/routes/auth"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}
}

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app := fiber.New()
	SetupUsersRoutes(app, db)
	return app, mock
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	token, err := auth.GenerateJWT(&models.User{ID: "user-1", Email: "dana@school.org"})
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "jwt_token", Value: token})
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

var userRows = []string{
	"id", "email", "first_name", "last_name", "role", "school_id",
	"sss_position", "google_id", "department", "phone", "created_at", "updated_at",
}

func sqlmockNow() time.Time { return time.Now() }

func TestUpdateUserAPI_IgnoresNonAllowlistedFields(t *testing.T) {
	app, mock := newTestApp(t)

	resp, err := app.Test(authedRequest(t, "PATCH", "/api/users/me",
		`{"role":"SSS_STAFF","email":"evil@school.org","id":"other"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "No valid fields to update", decodeBody(t, resp)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserAPI_UpdatesAllowlistedFields(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery("UPDATE users SET").
		WillReturnRows(sqlmock.NewRows(userRows).AddRow(
			"user-1", "dana@school.org", "Dana", "Reyes", "SSS_STAFF", nil,
			"Counselor", nil, "Support", "555-0100", sqlmockNow(), sqlmockNow(),
		))

	resp, err := app.Test(authedRequest(t, "PATCH", "/api/users/me", `{"phone":"555-0100"}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "555-0100", data["phone"])
}

func TestGetUserAPI_ForeignProfileForbidden(t *testing.T) {
	app, mock := newTestApp(t)

	resp, err := app.Test(authedRequest(t, "GET", "/api/users/someone-else", ""))
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "Forbidden - You can only view your own profile", decodeBody(t, resp)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserAPI_MissingProfile(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery("SELECT id, email").
		WithArgs("user-1").
		WillReturnError(sql.ErrNoRows)

	resp, err := app.Test(authedRequest(t, "GET", "/api/users/me", ""))
	require.NoError(t, err)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "User not found", decodeBody(t, resp)["error"])
}

func TestOnboardingAPI_RejectsInvalidRole(t *testing.T) {
	app, mock := newTestApp(t)

	resp, err := app.Test(authedRequest(t, "POST", "/api/users/onboarding", `{"role":"WIZARD"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Invalid role", decodeBody(t, resp)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnboardingAPI_RejectsSecondCompletion(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery("SELECT id, email").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userRows).AddRow(
			"user-1", "dana@school.org", "Dana", "Reyes", "TEACHER", nil,
			nil, nil, nil, nil, sqlmockNow(), sqlmockNow(),
		))

	resp, err := app.Test(authedRequest(t, "POST", "/api/users/onboarding", `{"role":"SSS_STAFF"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Profile already completed", decodeBody(t, resp)["error"])
}
