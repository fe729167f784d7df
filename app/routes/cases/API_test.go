package cases

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

func newTestApp(t *testing.T) (*fiber.App, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	app := fiber.New()
	SetupCasesRoutes(app, db)
	return app, db, mock
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	token, err := auth.GenerateJWT(&models.User{ID: "user-1", Email: "dana@school.org"})
	require.NoError(t, err)

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
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

func expectStaffRole(mock sqlmock.Sqlmock, role interface{}) {
	mock.ExpectQuery("SELECT role FROM users").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow(role))
}

func TestGetCasesAPI_ReturnsDataAndCount(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT c.id").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "student_id", "case_type", "tier", "status", "is_urgent",
			"opened_date", "case_manager_id", "created_at", "updated_at",
			"name", "grade", "first_name", "last_name", "email", "count",
		}))

	resp, err := app.Test(authedRequest(t, "GET", "/api/cases/", ""))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["count"])
	assert.NotNil(t, body["data"])

	// success responses carry an explicit error: null
	errVal, hasError := body["error"]
	assert.True(t, hasError)
	assert.Nil(t, errVal)
}

func TestGetCasesAPI_NonStaffForbidden(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "TEACHER")

	resp, err := app.Test(authedRequest(t, "GET", "/api/cases/", ""))
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "Forbidden - Only SSS staff can view cases", decodeBody(t, resp)["error"])
	// no case query runs for a forbidden caller
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCasesAPI_PaginationOffset(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(55))
	// page=3, limit=10 means offset 20
	mock.ExpectQuery("SELECT c.id").
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "student_id", "case_type", "tier", "status", "is_urgent",
			"opened_date", "case_manager_id", "created_at", "updated_at",
			"name", "grade", "first_name", "last_name", "email", "count",
		}))

	resp, err := app.Test(authedRequest(t, "GET", "/api/cases/?page=3&limit=10", ""))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCaseByIDAPI_NotFound(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	mock.ExpectQuery("SELECT c.id, c.student_id").
		WithArgs("missing-id").
		WillReturnError(sql.ErrNoRows)

	resp, err := app.Test(authedRequest(t, "GET", "/api/cases/missing-id", ""))
	require.NoError(t, err)

	assert.Equal(t, 404, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Case not found", body["error"])

	// error responses carry an explicit data: null
	dataVal, hasData := body["data"]
	assert.True(t, hasData)
	assert.Nil(t, dataVal)
}

func TestCreateCaseAPI_MissingFields(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	resp, err := app.Test(authedRequest(t, "POST", "/api/cases/", `{"tier": 2}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Missing required fields: student_id, case_type", decodeBody(t, resp)["error"])
}

func TestCreateCaseAPI_NonStaffForbidden(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "PARENT")

	resp, err := app.Test(authedRequest(t, "POST", "/api/cases/", `{"student_id":"s1","case_type":"SEL"}`))
	require.NoError(t, err)

	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "Forbidden - Only SSS staff can create cases", decodeBody(t, resp)["error"])
}

func TestCloseCaseAPI_RequiresReason(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	resp, err := app.Test(authedRequest(t, "DELETE", "/api/cases/case-1", `{}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "closure_reason is required", decodeBody(t, resp)["error"])
}

func TestCloseCaseAPI_AlreadyClosed(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	mock.ExpectQuery("SELECT status FROM cases").
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("CLOSED"))

	resp, err := app.Test(authedRequest(t, "DELETE", "/api/cases/case-1", `{"closure_reason":"done"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Case is already closed", decodeBody(t, resp)["error"])
}

func TestCloseCaseAPI_MissingCase(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	mock.ExpectQuery("SELECT status FROM cases").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	resp, err := app.Test(authedRequest(t, "DELETE", "/api/cases/nope", `{"closure_reason":"done"}`))
	require.NoError(t, err)

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Case not found", decodeBody(t, resp)["error"])
}

func TestUpdateCaseAPI_NoValidFields(t *testing.T) {
	app, _, mock := newTestApp(t)
	expectStaffRole(mock, "SSS_STAFF")

	mock.ExpectQuery("SELECT id FROM cases").
		WithArgs("case-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("case-1"))

	resp, err := app.Test(authedRequest(t, "PATCH", "/api/cases/case-1", `{"bogus_column":"x"}`))
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "No valid fields to update", decodeBody(t, resp)["error"])
}
