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

// VideoHandler serves the bookmarked-video watch queue.
type VideoHandler struct {
	DB *gorm.DB
}

func NewVideoHandler(db *gorm.DB) *VideoHandler {
	return &VideoHandler{DB: db}
}

type videoReq struct {
	Title   string `json:"title" binding:"required,max=255"`
	Link    string `json:"link" binding:"required,max=1024"`
	Watched bool   `json:"watched"`
}

type videoResp struct {
	ID      uint   `json:"id"`
	Title   string `json:"title"`
	Link    string `json:"link"`
	Watched bool   `json:"watched"`
}

func toVideoResp(v *models.Video) videoResp {
	return videoResp{ID: v.ID, Title: v.Title, Link: v.Link, Watched: v.Watched}
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "title and link are required")
		return
	}
	if !strings.HasPrefix(req.Link, "http://") && !strings.HasPrefix(req.Link, "https://") {
		util.Error(c, http.StatusBadRequest, "link must be an http(s) URL")
		return
	}

	video := models.Video{UserID: user.ID, Title: req.Title, Link: req.Link, Watched: req.Watched}
	if err := h.DB.Create(&video).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save video")
		return
	}
	util.JSON(c, http.StatusCreated, toVideoResp(&video))
}

// ListVideos returns the queue: unwatched first, oldest first.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	var videos []models.Video
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("watched ASC, id ASC").
		Find(&videos).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load videos")
		return
	}

	items := make([]videoResp, 0, len(videos))
	for i := range videos {
		items = append(items, toVideoResp(&videos[i]))
	}
	util.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req videoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "title and link are required")
		return
	}

	var video models.Video
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&video).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "video not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load video")
		}
		return
	}

	video.Title = req.Title
	video.Link = req.Link
	video.Watched = req.Watched
	if err := h.DB.Save(&video).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save video")
		return
	}
	util.JSON(c, http.StatusOK, toVideoResp(&video))
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Video{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete video")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "video not found")
		return
	}
	c.Status(http.StatusNoContent)
}
