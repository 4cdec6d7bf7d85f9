package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"
)

func TestCreateSiteAttachesVocabularies(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/sites", map[string]any{
		"name":            "Example.COM",
		"monthlyVisitors": 1200,
		"languages":       []string{"en", "tr"},
		"categories":      []string{"tech"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create site: status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp siteResp
	decodeBody(t, w, &resp)
	if resp.Name != "example.com" {
		t.Errorf("name = %q, want normalized %q", resp.Name, "example.com")
	}
	if len(resp.Languages) != 2 || resp.Languages[0] != "en" || resp.Languages[1] != "tr" {
		t.Errorf("languages = %v, want [en tr]", resp.Languages)
	}
	if len(resp.Categories) != 1 || resp.Categories[0] != "tech" {
		t.Errorf("categories = %v, want [tech]", resp.Categories)
	}
}

func TestUpdateSiteReplacesVocabularies(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/sites", map[string]any{
		"name":      "example.com",
		"languages": []string{"en"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create site: status = %d", w.Code)
	}
	var created siteResp
	decodeBody(t, w, &created)

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/sites/%d", created.ID), map[string]any{
		"name":       "example.com",
		"languages":  []string{"de"},
		"categories": []string{"news"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update site: status = %d, body = %s", w.Code, w.Body.String())
	}
	var updated siteResp
	decodeBody(t, w, &updated)
	if len(updated.Languages) != 1 || updated.Languages[0] != "de" {
		t.Errorf("languages = %v, want [de]", updated.Languages)
	}

	// the old vocabulary entry survives, only the join row is replaced
	var langCount int64
	db.Model(&models.Language{}).Count(&langCount)
	if langCount != 2 {
		t.Errorf("language rows = %d, want 2", langCount)
	}
	var joinCount int64
	db.Model(&models.SiteLanguage{}).Where("site_id = ?", created.ID).Count(&joinCount)
	if joinCount != 1 {
		t.Errorf("join rows = %d, want 1", joinCount)
	}
}

func TestDeleteSiteRemovesJoinRowsAndUrls(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "admin")
	r := newTestRouter(db, user)

	w := doJSON(t, r, http.MethodPost, "/api/sites", map[string]any{
		"name":      "example.com",
		"languages": []string{"en"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create site: status = %d", w.Code)
	}
	var created siteResp
	decodeBody(t, w, &created)

	w = doJSON(t, r, http.MethodPost, "/api/urls/add-urls/example.com", map[string]any{
		"urls": []string{"https://example.com/a"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("add url: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/sites/%d", created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete site: status = %d", w.Code)
	}

	var sites, joins, urls int64
	db.Model(&models.Site{}).Count(&sites)
	db.Model(&models.SiteLanguage{}).Count(&joins)
	db.Model(&models.Url{}).Count(&urls)
	if sites != 0 || joins != 0 || urls != 0 {
		t.Errorf("rows after delete = sites %d, joins %d, urls %d; want all 0", sites, joins, urls)
	}
}
