package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workstream-api/internal/balancer"
	"github.com/yukikurage/workstream-api/internal/constants"
	"github.com/yukikurage/workstream-api/internal/database"
	"github.com/yukikurage/workstream-api/internal/directory"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/repository"
	"github.com/yukikurage/workstream-api/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	dir      *directory.Directory
	services Services
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	dir, err := directory.Default(directory.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)

	ws, err := services.NewWorkstreamService(repository.NewWorkstreamRepository(db), dir, balancer.DefaultOptions())
	require.NoError(t, err)

	return testEnv{
		db:  db,
		dir: dir,
		services: Services{
			Auth:          services.NewAuthService(dir),
			Workstream:    ws,
			Notifications: services.NewNotificationService(repository.NewNotificationRepository(db)),
		},
	}
}

func (e testEnv) account(t *testing.T, username string) directory.Account {
	t.Helper()
	account, ok := e.dir.FindByUsername(username)
	require.True(t, ok, "unknown test account %q", username)
	return account
}

// authContext builds a handler context as RequireAuth would leave it.
func authContext(method, url string, body any, account *directory.Account, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	if account != nil {
		c.Set(constants.ContextKeyAccountID, account.ID)
		c.Set(constants.ContextKeyAccount, *account)
	}
	return c, w
}

func idParam(id string) gin.Param {
	return gin.Param{Key: "id", Value: id}
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}
