package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workstream-api/internal/constants"
	"github.com/yukikurage/workstream-api/internal/dto"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/models"
)

func setupRouter(t *testing.T) (*gin.Engine, testEnv) {
	t.Helper()
	env := setupTestEnv(t)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, env.services)
	return r, env
}

func doRequest(r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
	return cookies
}

func TestAuthHandler_Login(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "Admin",
		"password": "admin",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var response dto.AccountDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "M1", response.ID)
	assert.Equal(t, "Alex Rivera", response.Name)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decodeAPIError(t, w).Code)

	w = doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{"username": "magesh", "password": "magesh", "access": "manager"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_MeAndLogout(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := login(t, r, "tanishka", "tanishka")
	w = doRequest(r, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	var response dto.AccountDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "S3", response.ID)

	w = doRequest(r, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutes_ManagerOnlyMutations(t *testing.T) {
	r, _ := setupRouter(t)
	employee := login(t, r, "magesh", "magesh")

	w := doRequest(r, http.MethodPost, "/api/projects", map[string]any{"name": "Atlas"}, employee)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.ErrCodeInsufficientPermissions, decodeAPIError(t, w).Code)

	w = doRequest(r, http.MethodDelete, "/api/tasks", nil, employee)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodGet, "/api/assignments", nil, employee)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/api/tasks/import/preview", map[string]any{"rows": []any{}}, employee)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodGet, "/api/tasks", nil, employee)
	assert.Equal(t, http.StatusOK, w.Code)

	manager := login(t, r, "admin", "admin")
	w = doRequest(r, http.MethodPost, "/api/projects", map[string]any{"name": "Atlas"}, manager)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRoutes_TaskAndProjectAccess(t *testing.T) {
	r, env := setupRouter(t)
	mine, err := env.services.Workstream.CreateTask(models.Task{EmployeeName: "Magesh", ProjectName: "Atlas"})
	require.NoError(t, err)
	theirs, err := env.services.Workstream.CreateTask(models.Task{EmployeeName: "Rishi Raj", ProjectName: "Comet"})
	require.NoError(t, err)

	employee := login(t, r, "magesh", "magesh")

	w := doRequest(r, http.MethodGet, "/api/tasks/"+mine.Task.ID, nil, employee)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/tasks/"+theirs.Task.ID, nil, employee)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/projects/"+mine.CreatedProject.ID+"/roster", nil, employee)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/projects/"+theirs.CreatedProject.ID+"/roster", nil, employee)
	assert.Equal(t, http.StatusNotFound, w.Code)

	manager := login(t, r, "admin", "admin")
	w = doRequest(r, http.MethodPost, "/api/projects/"+theirs.CreatedProject.ID+"/offboard", map[string]any{"person": "Rishi Raj"}, manager)
	require.Equal(t, http.StatusOK, w.Code)
	var response dto.OffboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Removed)

	w = doRequest(r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
