package handler

import (
	"net/http"

	"github.com/ekinyalgin/consolevite-sub000/internal/config"
	"github.com/ekinyalgin/consolevite-sub000/internal/middleware"
	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// currentUserOrAbort returns the authenticated user or writes a 401.
func currentUserOrAbort(c *gin.Context) *models.User {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "not logged in")
	}
	return user
}

// GetMe returns the current user's profile.
func GetMe(c *gin.Context) {
	user := currentUserOrAbort(c)
	if user == nil {
		return
	}

	util.JSON(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
			"created_at":   user.CreatedAt,
		},
	})
}

type changePasswordReq struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePassword verifies the old password and stores a new hash.
func ChangePassword(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUserOrAbort(c)
		if user == nil {
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusBadRequest, "old password is wrong")
			return
		}
		if !isStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, "password must be 8-32 characters with upper, lower and digit")
			return
		}
		if req.NewPassword != req.ConfirmPassword {
			util.Error(c, http.StatusBadRequest, "passwords do not match")
			return
		}

		hash, err := util.HashPassword(req.NewPassword, cfg.Security.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to hash password")
			return
		}

		if err := db.Model(user).Update("password_hash", hash).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to save password")
			return
		}
		util.JSON(c, http.StatusOK, gin.H{"message": "password changed"})
	}
}
