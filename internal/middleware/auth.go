package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/workstream-api/internal/constants"
	"github.com/yukikurage/workstream-api/internal/directory"
	apierrors "github.com/yukikurage/workstream-api/internal/errors"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/views"
)

// RequireAuth checks if the caller is authenticated via session and loads the account
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		accountID, ok := session.Get(constants.ContextKeyAccountID).(string)
		if !ok || accountID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// The directory may have been reloaded since login.
		account, err := authService.GetAccount(accountID)
		if err != nil {
			apierrors.Unauthorized(c, "Session is no longer valid")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAccountID, accountID)
		c.Set(constants.ContextKeyAccount, account)
		c.Next()
	}
}

// RequireManager allows only manager accounts through. It must run after RequireAuth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, exists := GetAccount(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !account.IsManager() {
			apierrors.InsufficientPermissions(c, "Manager access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetAccount retrieves the current account from context
func GetAccount(c *gin.Context) (directory.Account, bool) {
	v, exists := c.Get(constants.ContextKeyAccount)
	if !exists {
		return directory.Account{}, false
	}
	account, ok := v.(directory.Account)
	return account, ok
}

// GetViewer returns the role-scoping viewer for the current account
func GetViewer(c *gin.Context) (views.Viewer, bool) {
	account, ok := GetAccount(c)
	if !ok {
		return views.Viewer{}, false
	}
	return views.Viewer{ID: account.ID, Name: account.Name, Manager: account.IsManager()}, true
}
