package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/middleware"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProfileReq 更新资料请求。密码三项只在修改密码时需要。
type UpdateProfileReq struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// UpdateProfile 更新当前用户的用户名/邮箱/密码。
// 写入流程固定为：校验 -> 需要时哈希一次 -> 持久化。
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req UpdateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, http.StatusBadRequest, "Username and email are required")
			return
		}

		req.Username = strings.TrimSpace(req.Username)
		email := util.NormalizeEmail(req.Email)

		if req.Username == "" || email == "" {
			util.Fail(c, http.StatusBadRequest, "Username and email are required")
			return
		}
		if err := util.ValidateUsername(req.Username); err != nil {
			util.Fail(c, http.StatusBadRequest, "Username must be between 3 and 30 characters")
			return
		}

		updates := map[string]interface{}{}

		if req.Username != user.Username {
			var existing models.User
			err := db.Where("username = ?", req.Username).First(&existing).Error
			if err == nil {
				util.Fail(c, http.StatusBadRequest, "Username already taken")
				return
			}
			if err != gorm.ErrRecordNotFound {
				log.Printf("profile username lookup error: %v", err)
				util.Fail(c, http.StatusInternalServerError, "Failed to update profile. Please try again.")
				return
			}
			updates["username"] = req.Username
		}

		if email != user.Email {
			var existing models.User
			err := db.Where("email = ?", email).First(&existing).Error
			if err == nil {
				util.Fail(c, http.StatusBadRequest, "Email already registered")
				return
			}
			if err != gorm.ErrRecordNotFound {
				log.Printf("profile email lookup error: %v", err)
				util.Fail(c, http.StatusInternalServerError, "Failed to update profile. Please try again.")
				return
			}
			updates["email"] = email
		}

		if req.NewPassword != "" || req.ConfirmNewPassword != "" {
			if req.CurrentPassword == "" {
				util.Fail(c, http.StatusBadRequest, "Current password is required to change your password")
				return
			}
			if !util.CheckPassword(req.CurrentPassword, user.PasswordHash) {
				util.Fail(c, http.StatusBadRequest, "Current password is incorrect")
				return
			}
			if err := util.ValidatePassword(req.NewPassword); err != nil {
				util.Fail(c, http.StatusBadRequest, "New password must be at least 8 characters")
				return
			}
			if req.NewPassword != req.ConfirmNewPassword {
				util.Fail(c, http.StatusBadRequest, "New passwords do not match")
				return
			}

			// 只有这里会哈希：没改密码的更新不会重新哈希
			hash, err := util.HashPassword(req.NewPassword)
			if err != nil {
				log.Printf("profile hash error: %v", err)
				util.Fail(c, http.StatusInternalServerError, "Failed to update profile. Please try again.")
				return
			}
			updates["password_hash"] = hash
		}

		// 不变式：落库的密码字段必须已经是哈希
		if v, ok := updates["password_hash"]; ok && !util.LooksHashed(v.(string)) {
			log.Printf("profile update aborted: password field is not hashed")
			util.Fail(c, http.StatusInternalServerError, "Failed to update profile. Please try again.")
			return
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				log.Printf("profile update error: %v", err)
				util.Fail(c, http.StatusInternalServerError, "Failed to update profile. Please try again.")
				return
			}
		}

		util.OK(c, gin.H{
			"message": "Profile updated successfully",
			"user":    authUserPayload(user),
		})
	}
}

// Dashboard 渲染当前用户的收藏页。
func Dashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/")
			return
		}

		var favoriteTeams []models.Constructor
		if err := db.Model(user).Order("position ASC").Association("FavoriteTeams").Find(&favoriteTeams); err != nil {
			log.Printf("dashboard teams error: %v", err)
		}
		var favoriteDrivers []models.Driver
		if err := db.Model(user).Order("points DESC").Association("FavoriteDrivers").Find(&favoriteDrivers); err != nil {
			log.Printf("dashboard drivers error: %v", err)
		}

		c.HTML(http.StatusOK, "dashboard.html", gin.H{
			"user":            user,
			"favoriteTeams":   favoriteTeams,
			"favoriteDrivers": favoriteDrivers,
			"favoritesCount":  len(favoriteTeams) + len(favoriteDrivers),
			"message":         c.Query("message"),
			"messageType":     c.Query("type"),
		})
	}
}
