package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SiteHandler manages tracked domains and their language/category
// vocabularies. Associations run through explicit join-table queries.
type SiteHandler struct {
	DB *gorm.DB
}

func NewSiteHandler(db *gorm.DB) *SiteHandler {
	return &SiteHandler{DB: db}
}

type siteReq struct {
	Name            string   `json:"name" binding:"required,max=255"`
	MonthlyVisitors int64    `json:"monthlyVisitors"`
	Languages       []string `json:"languages"`  // language codes
	Categories      []string `json:"categories"` // category names
}

type siteResp struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	MonthlyVisitors  int64    `json:"monthlyVisitors"`
	NotReviewedPages int64    `json:"notReviewedPages"`
	ReviewedPages    int64    `json:"reviewedPages"`
	Languages        []string `json:"languages"`
	Categories       []string `json:"categories"`
}

// ---------- explicit join-table queries ----------

func siteLanguages(db *gorm.DB, siteID uint) ([]string, error) {
	var codes []string
	err := db.Table("languages").
		Joins("JOIN site_languages sl ON sl.language_id = languages.id").
		Where("sl.site_id = ?", siteID).
		Order("languages.code ASC").
		Pluck("languages.code", &codes).Error
	return codes, err
}

func siteCategories(db *gorm.DB, siteID uint) ([]string, error) {
	var names []string
	err := db.Table("categories").
		Joins("JOIN site_categories sc ON sc.category_id = categories.id").
		Where("sc.site_id = ?", siteID).
		Order("categories.name ASC").
		Pluck("categories.name", &names).Error
	return names, err
}

// replaceSiteLanguages rewrites the join rows for the site, creating
// missing vocabulary entries on the way.
func replaceSiteLanguages(tx *gorm.DB, siteID uint, codes []string) error {
	if err := tx.Where("site_id = ?", siteID).Delete(&models.SiteLanguage{}).Error; err != nil {
		return err
	}
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		var lang models.Language
		if err := tx.Where("code = ?", code).
			FirstOrCreate(&lang, models.Language{Code: code}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.SiteLanguage{SiteID: siteID, LanguageID: lang.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceSiteCategories(tx *gorm.DB, siteID uint, names []string) error {
	if err := tx.Where("site_id = ?", siteID).Delete(&models.SiteCategory{}).Error; err != nil {
		return err
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var cat models.Category
		if err := tx.Where("name = ?", name).
			FirstOrCreate(&cat, models.Category{Name: name}).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.SiteCategory{SiteID: siteID, CategoryID: cat.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *SiteHandler) toSiteResp(site *models.Site) (siteResp, error) {
	langs, err := siteLanguages(h.DB, site.ID)
	if err != nil {
		return siteResp{}, err
	}
	cats, err := siteCategories(h.DB, site.ID)
	if err != nil {
		return siteResp{}, err
	}
	return siteResp{
		ID:               site.ID,
		Name:             site.Name,
		MonthlyVisitors:  site.MonthlyVisitors,
		NotReviewedPages: site.NotReviewedPages,
		ReviewedPages:    site.ReviewedPages,
		Languages:        langs,
		Categories:       cats,
	}, nil
}

// ---------- CRUD ----------

func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req siteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.ToLower(strings.TrimSpace(req.Name))
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, "site name is required")
		return
	}

	site := models.Site{Name: req.Name, MonthlyVisitors: req.MonthlyVisitors}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&site).Error; err != nil {
			return err
		}
		if err := replaceSiteLanguages(tx, site.ID, req.Languages); err != nil {
			return err
		}
		return replaceSiteCategories(tx, site.ID, req.Categories)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create site")
		return
	}

	resp, err := h.toSiteResp(&site)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load site")
		return
	}
	util.JSON(c, http.StatusCreated, resp)
}

func (h *SiteHandler) ListSites(c *gin.Context) {
	var sites []models.Site
	if err := h.DB.Order("name ASC").Find(&sites).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load sites")
		return
	}

	items := make([]siteResp, 0, len(sites))
	for i := range sites {
		resp, err := h.toSiteResp(&sites[i])
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to load sites")
			return
		}
		items = append(items, resp)
	}
	util.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *SiteHandler) UpdateSite(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req siteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var site models.Site
	if err := h.DB.First(&site, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "site not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load site")
		}
		return
	}

	site.Name = strings.ToLower(strings.TrimSpace(req.Name))
	site.MonthlyVisitors = req.MonthlyVisitors

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&site).Error; err != nil {
			return err
		}
		if err := replaceSiteLanguages(tx, site.ID, req.Languages); err != nil {
			return err
		}
		return replaceSiteCategories(tx, site.ID, req.Categories)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update site")
		return
	}

	resp, err := h.toSiteResp(&site)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load site")
		return
	}
	util.JSON(c, http.StatusOK, resp)
}

// DeleteSite removes the site, its join rows and its URL records.
func (h *SiteHandler) DeleteSite(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var site models.Site
	if err := h.DB.First(&site, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "site not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load site")
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("site_id = ?", site.ID).Delete(&models.SiteLanguage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("site_id = ?", site.ID).Delete(&models.SiteCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("domain_name = ?", site.Name).Delete(&models.Url{}).Error; err != nil {
			return err
		}
		return tx.Delete(&site).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete site")
		return
	}

	util.JSON(c, http.StatusOK, gin.H{"message": "site deleted"})
}

// ---------- vocabularies ----------

func (h *SiteHandler) ListLanguages(c *gin.Context) {
	var langs []models.Language
	if err := h.DB.Order("code ASC").Find(&langs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load languages")
		return
	}
	util.JSON(c, http.StatusOK, gin.H{"items": langs})
}

func (h *SiteHandler) ListCategories(c *gin.Context) {
	var cats []models.Category
	if err := h.DB.Order("name ASC").Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load categories")
		return
	}
	util.JSON(c, http.StatusOK, gin.H{"items": cats})
}
