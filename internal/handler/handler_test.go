package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ekinyalgin/consolevite-sub000/internal/database"
	"github.com/ekinyalgin/consolevite-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// a single connection keeps the shared in-memory db alive
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		Username:     fmt.Sprintf("user%d", atomic.AddInt64(&testDBCounter, 1)),
		PasswordHash: "x",
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

// newTestRouter builds a minimal engine with the given user injected,
// standing in for the auth middleware.
func newTestRouter(db *gorm.DB, user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("currentUser", user)
		}
		c.Next()
	})

	bh := NewBalanceHandler(db)
	r.POST("/api/balances", bh.CreateEntry)
	r.GET("/api/balances", bh.ListEntries)
	r.PUT("/api/balances/:id", bh.UpdateEntry)
	r.DELETE("/api/balances/:id", bh.DeleteEntry)
	r.POST("/api/balances/:id/decrease-installment", bh.DecreaseInstallment)

	uh := NewUrlHandler(db)
	r.POST("/api/urls/add-urls/:domainName", uh.AddUrls)
	r.GET("/api/urls/list/:domainName", uh.ListUrls)
	r.PUT("/api/urls/urls/:id/review", uh.MarkReviewed)
	r.DELETE("/api/urls/urls/:id", uh.DeleteUrl)

	sh := NewSiteHandler(db)
	r.POST("/api/sites", sh.CreateSite)
	r.GET("/api/sites", sh.ListSites)
	r.PUT("/api/sites/:id", sh.UpdateSite)
	r.DELETE("/api/sites/:id", sh.DeleteSite)

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
