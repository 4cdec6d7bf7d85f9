package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Bodies on these routes carry credentials and are never persisted.
var redactedRoutes = []string{
	"/api/auth/",
	"/api/profile/password",
}

func bodyRedacted(path string) bool {
	for _, prefix := range redactedRoutes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuditMiddleware records authenticated requests (method, path, body
// summary, client IP and user agent) to the audit log table. Request
// bodies on credential-bearing routes are redacted.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if user := CurrentUser(c); user != nil {
			userID = user.ID
		}

		// keep the body readable for the handler
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		// only record operations of logged-in users
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if !bodyRedacted(path) && len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			action += " " + string(bodyBytes)
		}

		log := models.AuditLog{
			UserID:    &userID,
			Path:      path,
			Method:    c.Request.Method,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&log).Error
	}
}
