package files

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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
	SetupFilesRoutes(app, db)
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

func expectStaffRole(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT role FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("SSS_STAFF"))
}

func TestCreateFileAPI_MissingBothRequiredFields(t *testing.T) {
	app, mock := newTestApp(t)
	expectStaffRole(mock)

	resp, err := app.Test(authedRequest(t, "POST", "/api/files/", `{"description":"notes"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Missing required fields: file_name, file_url", decodeBody(t, resp)["error"])
}

func TestCreateFileAPI_MissingOnlyFileURL(t *testing.T) {
	app, mock := newTestApp(t)
	expectStaffRole(mock)

	resp, err := app.Test(authedRequest(t, "POST", "/api/files/", `{"file_name":"report.pdf"}`))
	require.NoError(t, err)

	// the message names both required fields even when only one is absent
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Missing required fields: file_name, file_url", decodeBody(t, resp)["error"])
}

func TestDeleteFileAPI_ReturnsIDAndURL(t *testing.T) {
	app, mock := newTestApp(t)
	expectStaffRole(mock)

	mock.ExpectQuery("DELETE FROM files").
		WithArgs("file-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "file_url"}).
			AddRow("file-1", "https://storage.example.com/report.pdf"))

	resp, err := app.Test(authedRequest(t, "DELETE", "/api/files/file-1", ""))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "file-1", data["id"])
	assert.Equal(t, "https://storage.example.com/report.pdf", data["file_url"])
}

func TestDeleteFileAPI_NotFound(t *testing.T) {
	app, mock := newTestApp(t)
	expectStaffRole(mock)

	mock.ExpectQuery("DELETE FROM files").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	resp, err := app.Test(authedRequest(t, "DELETE", "/api/files/missing", ""))
	require.NoError(t, err)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "File not found", decodeBody(t, resp)["error"])
}
