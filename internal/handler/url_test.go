package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"

	"gorm.io/gorm"
)

func createTestSite(t *testing.T, db *gorm.DB, name string) *models.Site {
	t.Helper()
	site := models.Site{Name: name}
	if err := db.Create(&site).Error; err != nil {
		t.Fatalf("create test site: %v", err)
	}
	return &site
}

func reloadSite(t *testing.T, db *gorm.DB, id uint) models.Site {
	t.Helper()
	var site models.Site
	if err := db.First(&site, id).Error; err != nil {
		t.Fatalf("reload site: %v", err)
	}
	return site
}

func TestAddUrlsIncrementsCounter(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	site := createTestSite(t, db, "example.com")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add urls: status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		AddedUrls []urlResp `json:"addedUrls"`
	}
	decodeBody(t, w, &resp)
	if len(resp.AddedUrls) != 3 {
		t.Errorf("addedUrls = %d, want 3", len(resp.AddedUrls))
	}

	got := reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 3 {
		t.Errorf("not_reviewed_pages = %d, want 3", got.NotReviewedPages)
	}
	var rows int64
	db.Model(&models.Url{}).Where("domain_name = ?", "example.com").Count(&rows)
	if rows != 3 {
		t.Errorf("url rows = %d, want 3", rows)
	}
}

func TestAddUrlsUnknownSite(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/urls/add-urls/missing.com", map[string]any{
		"urls": []string{"https://missing.com/a"},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// A failure in the middle of a bulk insert must leave zero new rows and
// the counter unchanged. A duplicate address inside the batch trips the
// unique index and rolls the transaction back.
func TestAddUrlsAtomicRollback(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	site := createTestSite(t, db, "example.com")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/a"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("seed url: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/b", "https://example.com/a"},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("duplicate batch: status = %d, want 500", w.Code)
	}

	got := reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 1 {
		t.Errorf("not_reviewed_pages = %d, want 1 (rollback)", got.NotReviewedPages)
	}
	var rows int64
	db.Model(&models.Url{}).Where("domain_name = ?", "example.com").Count(&rows)
	if rows != 1 {
		t.Errorf("url rows = %d, want 1 (rollback)", rows)
	}
}

// Marking reviewed and back restores the original counters.
func TestMarkReviewedRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	site := createTestSite(t, db, "example.com")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/a"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add url: status = %d", w.Code)
	}
	var addResp struct {
		AddedUrls []urlResp `json:"addedUrls"`
	}
	decodeBody(t, w, &addResp)
	urlID := addResp.AddedUrls[0].ID

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/urls/urls/%d/review", urlID), map[string]any{"reviewed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("mark reviewed: status = %d, body = %s", w.Code, w.Body.String())
	}
	got := reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 0 || got.ReviewedPages != 1 {
		t.Errorf("after review: counters = %d/%d, want 0/1", got.NotReviewedPages, got.ReviewedPages)
	}

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/urls/urls/%d/review", urlID), map[string]any{"reviewed": false})
	if w.Code != http.StatusOK {
		t.Fatalf("unmark reviewed: status = %d", w.Code)
	}
	got = reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 1 || got.ReviewedPages != 0 {
		t.Errorf("after round trip: counters = %d/%d, want 1/0", got.NotReviewedPages, got.ReviewedPages)
	}
}

// Re-sending the current flag must not move the counters.
func TestMarkReviewedNoOp(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	site := createTestSite(t, db, "example.com")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/a"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add url: status = %d", w.Code)
	}
	var addResp struct {
		AddedUrls []urlResp `json:"addedUrls"`
	}
	decodeBody(t, w, &addResp)
	urlID := addResp.AddedUrls[0].ID

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/urls/urls/%d/review", urlID), map[string]any{"reviewed": false})
	if w.Code != http.StatusOK {
		t.Fatalf("no-op review: status = %d", w.Code)
	}
	got := reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 1 || got.ReviewedPages != 0 {
		t.Errorf("counters = %d/%d, want unchanged 1/0", got.NotReviewedPages, got.ReviewedPages)
	}
}

func TestMarkReviewedNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPut, "/api/urls/urls/777/review", map[string]any{"reviewed": true})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteUrlDecrementsMatchingCounter(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	site := createTestSite(t, db, "example.com")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/a", "https://example.com/b"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add urls: status = %d", w.Code)
	}
	var addResp struct {
		AddedUrls []urlResp `json:"addedUrls"`
	}
	decodeBody(t, w, &addResp)
	first, second := addResp.AddedUrls[0].ID, addResp.AddedUrls[1].ID

	// review the first, then delete it: reviewed_pages goes back down
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/urls/urls/%d/review", first), map[string]any{"reviewed": true})
	if w.Code != http.StatusOK {
		t.Fatalf("review: status = %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/urls/urls/%d", first), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete reviewed: status = %d", w.Code)
	}
	got := reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 1 || got.ReviewedPages != 0 {
		t.Errorf("after reviewed delete: counters = %d/%d, want 1/0", got.NotReviewedPages, got.ReviewedPages)
	}

	// delete the not-reviewed one
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/urls/urls/%d", second), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete not-reviewed: status = %d", w.Code)
	}
	got = reloadSite(t, db, site.ID)
	if got.NotReviewedPages != 0 || got.ReviewedPages != 0 {
		t.Errorf("after both deletes: counters = %d/%d, want 0/0", got.NotReviewedPages, got.ReviewedPages)
	}
}

func TestDeleteUrlNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodDelete, "/api/urls/urls/777", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
