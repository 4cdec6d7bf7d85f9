package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errSiteNotFound = errors.New("site not found")

// UrlHandler keeps a site's reviewed / not-reviewed page counters
// consistent with Url row mutations. Every multi-statement sequence
// runs in one database transaction.
type UrlHandler struct {
	DB *gorm.DB
}

func NewUrlHandler(db *gorm.DB) *UrlHandler {
	return &UrlHandler{DB: db}
}

type urlResp struct {
	ID         uint   `json:"id"`
	DomainName string `json:"domainName"`
	Address    string `json:"address"`
	Reviewed   bool   `json:"reviewed"`
}

func toUrlResp(u *models.Url) urlResp {
	return urlResp{ID: u.ID, DomainName: u.DomainName, Address: u.Address, Reviewed: u.Reviewed}
}

// insertUrls bulk-inserts not-reviewed Url rows for the domain and
// increments the site's not_reviewed_pages counter. Must run inside a
// transaction: a duplicate address (or any other failure) rolls back
// both the rows and the counter.
func insertUrls(tx *gorm.DB, domainName string, addresses []string) ([]models.Url, error) {
	var site models.Site
	if err := tx.Where("name = ?", domainName).First(&site).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errSiteNotFound
		}
		return nil, err
	}

	urls := make([]models.Url, 0, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		urls = append(urls, models.Url{DomainName: domainName, Address: a})
	}
	if len(urls) == 0 {
		return nil, nil
	}

	if err := tx.Create(&urls).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Site{}).Where("id = ?", site.ID).
		UpdateColumn("not_reviewed_pages", gorm.Expr("not_reviewed_pages + ?", len(urls))).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

// ---------- bulk add ----------

type addUrlsReq struct {
	Urls []string `json:"urls" binding:"required"`
}

func (h *UrlHandler) AddUrls(c *gin.Context) {
	domainName := c.Param("domainName")

	var req addUrlsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Urls) == 0 {
		util.Error(c, http.StatusBadRequest, "urls list is required")
		return
	}

	var added []models.Url
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		added, err = insertUrls(tx, domainName, req.Urls)
		return err
	})
	switch {
	case err == errSiteNotFound:
		util.Error(c, http.StatusNotFound, "site not found")
		return
	case err != nil:
		util.Error(c, http.StatusInternalServerError, "failed to add urls")
		return
	}

	resp := make([]urlResp, 0, len(added))
	for i := range added {
		resp = append(resp, toUrlResp(&added[i]))
	}
	util.JSON(c, http.StatusOK, gin.H{"addedUrls": resp})
}

// ---------- review flag ----------

type reviewReq struct {
	Reviewed *bool `json:"reviewed" binding:"required"`
}

// MarkReviewed flips the reviewed flag and moves one unit between the
// site counters. A no-op request (flag unchanged) moves nothing.
func (h *UrlHandler) MarkReviewed(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Reviewed == nil {
		util.Error(c, http.StatusBadRequest, "reviewed flag is required")
		return
	}

	var url models.Url
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&url, id).Error; err != nil {
			return err
		}
		if url.Reviewed == *req.Reviewed {
			return nil
		}

		url.Reviewed = *req.Reviewed
		if err := tx.Save(&url).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"not_reviewed_pages": gorm.Expr("not_reviewed_pages - 1"),
			"reviewed_pages":     gorm.Expr("reviewed_pages + 1"),
		}
		if !url.Reviewed {
			updates = map[string]interface{}{
				"not_reviewed_pages": gorm.Expr("not_reviewed_pages + 1"),
				"reviewed_pages":     gorm.Expr("reviewed_pages - 1"),
			}
		}
		return tx.Model(&models.Site{}).Where("name = ?", url.DomainName).
			Updates(updates).Error
	})

	switch {
	case err == gorm.ErrRecordNotFound:
		util.Error(c, http.StatusNotFound, "url not found")
	case err != nil:
		util.Error(c, http.StatusInternalServerError, "failed to update url")
	default:
		util.JSON(c, http.StatusOK, toUrlResp(&url))
	}
}

// ---------- delete ----------

// DeleteUrl removes the row and decrements whichever counter matches
// its current reviewed state.
func (h *UrlHandler) DeleteUrl(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var url models.Url
		if err := tx.First(&url, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&url).Error; err != nil {
			return err
		}

		column := "not_reviewed_pages"
		if url.Reviewed {
			column = "reviewed_pages"
		}
		return tx.Model(&models.Site{}).Where("name = ?", url.DomainName).
			UpdateColumn(column, gorm.Expr(column+" - 1")).Error
	})

	switch {
	case err == gorm.ErrRecordNotFound:
		util.Error(c, http.StatusNotFound, "url not found")
	case err != nil:
		util.Error(c, http.StatusInternalServerError, "failed to delete url")
	default:
		util.JSON(c, http.StatusOK, gin.H{"message": "url deleted"})
	}
}

// ---------- list ----------

func (h *UrlHandler) ListUrls(c *gin.Context) {
	domainName := c.Param("domainName")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size <= 0 || size > 200 {
		size = 50
	}

	q := h.DB.Model(&models.Url{}).Where("domain_name = ?", domainName)
	if rv := c.Query("reviewed"); rv == "true" || rv == "false" {
		q = q.Where("reviewed = ?", rv == "true")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to count urls")
		return
	}

	var urls []models.Url
	if err := q.Session(&gorm.Session{}).
		Order("id ASC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&urls).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load urls")
		return
	}

	items := make([]urlResp, 0, len(urls))
	for i := range urls {
		items = append(items, toUrlResp(&urls[i]))
	}
	util.JSON(c, http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
