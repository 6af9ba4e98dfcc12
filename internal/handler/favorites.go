package handler

import (
	"log"
	"net/http"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/middleware"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type favoriteReq struct {
	Type string `json:"type" binding:"required"` // "team" 或 "driver"
	ID   uint   `json:"id" binding:"required"`
}

// AddFavorite 收藏车队/车手，重复收藏不报错。
func AddFavorite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req favoriteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "type and id are required")
			return
		}

		// Append 对不存在的主键会插入一条空行，所以必须先确认目标存在
		var err error
		switch req.Type {
		case "team":
			var team models.Constructor
			if err := db.First(&team, req.ID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					util.Error(c, http.StatusNotFound, "Constructor not found")
				} else {
					log.Printf("add favorite lookup error: %v", err)
					util.Error(c, http.StatusInternalServerError, "Failed to add to favorites")
				}
				return
			}
			err = db.Model(user).Association("FavoriteTeams").Append(&team)
		case "driver":
			var driver models.Driver
			if err := db.First(&driver, req.ID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					util.Error(c, http.StatusNotFound, "Driver not found")
				} else {
					log.Printf("add favorite lookup error: %v", err)
					util.Error(c, http.StatusInternalServerError, "Failed to add to favorites")
				}
				return
			}
			err = db.Model(user).Association("FavoriteDrivers").Append(&driver)
		default:
			util.Error(c, http.StatusBadRequest, "type must be 'team' or 'driver'")
			return
		}
		if err != nil {
			log.Printf("add favorite error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to add to favorites")
			return
		}

		util.OK(c, gin.H{"message": "Added to favorites"})
	}
}

// RemoveFavorite 取消收藏，未收藏的条目静默忽略。
func RemoveFavorite(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req favoriteReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "type and id are required")
			return
		}

		var err error
		switch req.Type {
		case "team":
			err = db.Model(user).Association("FavoriteTeams").Delete(&models.Constructor{ID: req.ID})
		case "driver":
			err = db.Model(user).Association("FavoriteDrivers").Delete(&models.Driver{ID: req.ID})
		default:
			util.Error(c, http.StatusBadRequest, "type must be 'team' or 'driver'")
			return
		}
		if err != nil {
			log.Printf("remove favorite error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to remove from favorites")
			return
		}

		util.OK(c, gin.H{"message": "Removed from favorites"})
	}
}
