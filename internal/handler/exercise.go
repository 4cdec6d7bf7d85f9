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

// ExerciseHandler serves the weekly exercise routines.
type ExerciseHandler struct {
	DB *gorm.DB
}

func NewExerciseHandler(db *gorm.DB) *ExerciseHandler {
	return &ExerciseHandler{DB: db}
}

var validDays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type exerciseReq struct {
	Name string `json:"name" binding:"required,max=128"`
	Day  string `json:"day" binding:"required"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

type exerciseResp struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Day  string `json:"day"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

func toExerciseResp(e *models.Exercise) exerciseResp {
	return exerciseResp{ID: e.ID, Name: e.Name, Day: e.Day, Sets: e.Sets, Reps: e.Reps}
}

func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	var req exerciseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "name and day are required")
		return
	}
	day := strings.ToLower(strings.TrimSpace(req.Day))
	if !validDays[day] {
		util.Error(c, http.StatusBadRequest, "day must be a weekday name")
		return
	}
	if req.Sets < 0 || req.Reps < 0 {
		util.Error(c, http.StatusBadRequest, "sets and reps must not be negative")
		return
	}

	ex := models.Exercise{UserID: user.ID, Name: req.Name, Day: day, Sets: req.Sets, Reps: req.Reps}
	if err := h.DB.Create(&ex).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save exercise")
		return
	}
	util.JSON(c, http.StatusCreated, toExerciseResp(&ex))
}

// ListExercises returns the routine, optionally filtered by ?day=.
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)
	if day := strings.ToLower(c.Query("day")); day != "" {
		if !validDays[day] {
			util.Error(c, http.StatusBadRequest, "day must be a weekday name")
			return
		}
		q = q.Where("day = ?", day)
	}

	var exercises []models.Exercise
	if err := q.Order("day ASC, id ASC").Find(&exercises).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load exercises")
		return
	}

	items := make([]exerciseResp, 0, len(exercises))
	for i := range exercises {
		items = append(items, toExerciseResp(&exercises[i]))
	}
	util.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req exerciseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "name and day are required")
		return
	}
	day := strings.ToLower(strings.TrimSpace(req.Day))
	if !validDays[day] {
		util.Error(c, http.StatusBadRequest, "day must be a weekday name")
		return
	}

	var ex models.Exercise
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&ex).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "exercise not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load exercise")
		}
		return
	}

	ex.Name = req.Name
	ex.Day = day
	ex.Sets = req.Sets
	ex.Reps = req.Reps
	if err := h.DB.Save(&ex).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save exercise")
		return
	}
	util.JSON(c, http.StatusOK, toExerciseResp(&ex))
}

func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Exercise{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete exercise")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "exercise not found")
		return
	}
	c.Status(http.StatusNoContent)
}
