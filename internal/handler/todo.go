package handler

import (
	"net/http"
	"strconv"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TodoHandler struct {
	DB *gorm.DB
}

func NewTodoHandler(db *gorm.DB) *TodoHandler {
	return &TodoHandler{DB: db}
}

type todoReq struct {
	Title string `json:"title" binding:"required,max=255"`
	Note  string `json:"note" binding:"max=1024"`
	Done  bool   `json:"done"`
}

type todoResp struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Note  string `json:"note"`
	Done  bool   `json:"done"`
}

func toTodoResp(t *models.Todo) todoResp {
	return todoResp{ID: t.ID, Title: t.Title, Note: t.Note, Done: t.Done}
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	var req todoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "title is required")
		return
	}

	todo := models.Todo{UserID: user.ID, Title: req.Title, Note: req.Note, Done: req.Done}
	if err := h.DB.Create(&todo).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save todo")
		return
	}
	util.JSON(c, http.StatusCreated, toTodoResp(&todo))
}

// ListTodos returns open items first, newest first within each group.
func (h *TodoHandler) ListTodos(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	var todos []models.Todo
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("done ASC, id DESC").
		Find(&todos).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load todos")
		return
	}

	items := make([]todoResp, 0, len(todos))
	for i := range todos {
		items = append(items, toTodoResp(&todos[i]))
	}
	util.JSON(c, http.StatusOK, gin.H{"items": items})
}

func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req todoReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "title is required")
		return
	}

	var todo models.Todo
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&todo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "todo not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load todo")
		}
		return
	}

	todo.Title = req.Title
	todo.Note = req.Note
	todo.Done = req.Done
	if err := h.DB.Save(&todo).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save todo")
		return
	}
	util.JSON(c, http.StatusOK, toTodoResp(&todo))
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Todo{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete todo")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "todo not found")
		return
	}
	c.Status(http.StatusNoContent)
}
