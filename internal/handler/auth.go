package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ekinyalgin/consolevite-sub000/internal/config"
	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthHandler serves register/login/refresh/logout.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

func (h *AuthHandler) accessTTL() time.Duration {
	hours := h.Cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}

func (h *AuthHandler) refreshTTL() time.Duration {
	days := h.Cfg.JWT.RefreshDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// newSession persists a refresh session and returns its opaque token.
func (h *AuthHandler) newSession(tx *gorm.DB, userID uint) (string, error) {
	token, err := util.RandomString(64)
	if err != nil {
		return "", err
	}
	session := models.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		RefreshToken: token,
		ExpiresAt:    time.Now().Add(h.refreshTTL()),
	}
	if err := tx.Create(&session).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (h *AuthHandler) tokenPair(user *models.User) (gin.H, error) {
	access, err := util.GenerateToken(h.Cfg.JWT.Secret, h.Cfg.JWT.Issuer, user.ID, user.Role, h.accessTTL())
	if err != nil {
		return nil, err
	}

	var refresh string
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		refresh, err = h.newSession(tx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return gin.H{
		"token":         access,
		"refresh_token": refresh,
		"expires_in":    int(h.accessTTL().Seconds()),
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
		},
	}, nil
}

// ---------- register ----------

type registerReq struct {
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	DisplayName     string `json:"display_name" binding:"max=64"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, "username must be 3-20 letters, digits or underscores")
		return
	}
	if !isStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, "password must be 8-32 characters with upper, lower and digit")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, "passwords do not match")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to check username")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "username already taken")
		return
	}

	hash, err := util.HashPassword(req.Password, h.Cfg.Security.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	// single-admin system: the first account is the admin
	role := "user"
	var total int64
	if err := h.DB.Model(&models.User{}).Count(&total).Error; err == nil && total == 0 {
		role = "admin"
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         role,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	util.JSON(c, http.StatusCreated, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"role":         user.Role,
		},
	})
}

// password strength: 8-32 chars, upper + lower + digit
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 32 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusUnauthorized, "invalid credentials")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load user")
		}
		return
	}

	now := time.Now()

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusUnauthorized, "account locked, try again later")
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		// wrong password: count failures, lock for 10 minutes at 5
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockUntil := now.Add(10 * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	resp, err := h.tokenPair(&user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	util.JSON(c, http.StatusOK, resp)
}

// ---------- refresh ----------

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the session: the presented refresh token is revoked
// and a fresh access/refresh pair is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "refresh_token is required")
		return
	}

	var session models.Session
	if err := h.DB.Where("refresh_token = ?", req.RefreshToken).First(&session).Error; err != nil {
		util.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if session.Revoked || time.Now().After(session.ExpiresAt) {
		util.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	var user models.User
	if err := h.DB.First(&user, session.UserID).Error; err != nil {
		util.Error(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	if err := h.DB.Model(&session).Update("revoked", true).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to rotate session")
		return
	}

	resp, err := h.tokenPair(&user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	util.JSON(c, http.StatusOK, resp)
}

// ---------- logout ----------

// Logout revokes all of the caller's refresh sessions.
func (h *AuthHandler) Logout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUserOrAbort(c)
		if user == nil {
			return
		}
		if err := db.Model(&models.Session{}).
			Where("user_id = ? AND revoked = ?", user.ID, false).
			Update("revoked", true).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to log out")
			return
		}
		util.JSON(c, http.StatusOK, gin.H{"message": "logged out"})
	}
}
