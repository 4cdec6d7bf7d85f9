package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAuditDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newAuditRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(currentUserKey, &models.User{ID: 1, Username: "admin", Role: "admin"})
		c.Next()
	})
	r.Use(AuditMiddleware(db))

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "ok"}) }
	r.POST("/api/profile/password", ok)
	r.POST("/api/auth/refresh", ok)
	r.POST("/api/todos", ok)
	return r
}

func postJSON(t *testing.T, r http.Handler, path, body string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST %s: status = %d", path, w.Code)
	}
}

func latestLog(t *testing.T, db *gorm.DB) models.AuditLog {
	t.Helper()
	var log models.AuditLog
	if err := db.Order("id DESC").First(&log).Error; err != nil {
		t.Fatalf("load audit log: %v", err)
	}
	return log
}

// Credential-bearing routes must never end up with their bodies at
// rest in the audit trail.
func TestAuditRedactsCredentialBodies(t *testing.T) {
	db := setupAuditDB(t, "auditredact")
	r := newAuditRouter(db)

	postJSON(t, r, "/api/profile/password",
		`{"old_password":"OldSecret1","new_password":"NewSecret2","confirm_password":"NewSecret2"}`)

	log := latestLog(t, db)
	if log.Action != "POST /api/profile/password" {
		t.Errorf("action = %q, want method and path only", log.Action)
	}
	if strings.Contains(log.Action, "OldSecret1") || strings.Contains(log.Action, "NewSecret2") {
		t.Error("plaintext password persisted in audit log")
	}

	postJSON(t, r, "/api/auth/refresh", `{"refresh_token":"opaque-refresh-token"}`)
	if log := latestLog(t, db); strings.Contains(log.Action, "opaque-refresh-token") {
		t.Errorf("refresh token persisted in audit log: %q", log.Action)
	}
}

func TestAuditKeepsOrdinaryBodies(t *testing.T) {
	db := setupAuditDB(t, "auditkeep")
	r := newAuditRouter(db)

	postJSON(t, r, "/api/todos", `{"title":"water the plants"}`)

	log := latestLog(t, db)
	if !strings.Contains(log.Action, "water the plants") {
		t.Errorf("action = %q, want body summary included", log.Action)
	}
	if log.Method != "POST" || log.Path != "/api/todos" {
		t.Errorf("method/path = %s %s, want POST /api/todos", log.Method, log.Path)
	}
}
