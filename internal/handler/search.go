package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// Search 跨实体全局搜索：车队和车手各取前 5 条。
func Search(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if len(query) < 2 {
			util.OK(c, gin.H{
				"data":    []gin.H{},
				"message": "Query too short",
			})
			return
		}

		pattern := "%" + strings.ToLower(query) + "%"

		var constructors []models.Constructor
		if err := db.Where("LOWER(team) LIKE ? OR LOWER(drivers) LIKE ?", pattern, pattern).
			Limit(5).Find(&constructors).Error; err != nil {
			log.Printf("search constructors error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Search failed")
			return
		}

		var drivers []models.Driver
		if err := db.Where("LOWER(name) LIKE ? OR LOWER(team) LIKE ? OR LOWER(nationality) LIKE ?",
			pattern, pattern, pattern).
			Limit(5).Find(&drivers).Error; err != nil {
			log.Printf("search drivers error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Search failed")
			return
		}

		results := make([]gin.H, 0, len(constructors)+len(drivers))
		for _, con := range constructors {
			results = append(results, gin.H{
				"type":        "constructor",
				"id":          con.ID,
				"name":        con.Team,
				"description": fmt.Sprintf("Constructors' Championship: Position %d", con.Position),
				"detail":      fmt.Sprintf("Drivers: %s • Points: %d", con.Drivers, con.Points),
				"position":    con.Position,
				"drivers":     con.Drivers,
				"points":      con.Points,
			})
		}
		for _, d := range drivers {
			results = append(results, gin.H{
				"type":        "driver",
				"id":          d.ID,
				"name":        d.Name,
				"description": "Drivers' Championship",
				"detail":      fmt.Sprintf("Team: %s • Points: %d", d.Team, d.Points),
				"team":        d.Team,
				"points":      d.Points,
				"nationality": d.Nationality,
			})
		}

		util.OK(c, gin.H{
			"count": len(results),
			"data":  results,
			"query": strings.ToLower(query),
		})
	}
}

// Info 项目元信息（公开）。
func Info(c *gin.Context) {
	util.OK(c, gin.H{
		"data": gin.H{
			"project":     "F1 Website",
			"version":     "1.0.0",
			"description": "Formula 1 statistics and management system",
			"features": []string{
				"Constructor Management",
				"Driver Statistics",
				"Contact Forms",
				"API Endpoints",
				"Real-time Data",
				"User Authentication",
				"Favorites System",
			},
			"status":      "active",
			"uptime":      time.Since(startedAt).Seconds(),
			"lastUpdated": time.Now().Format("2006-01-02"),
			"endpoints": gin.H{
				"constructors":     "/api/constructors",
				"drivers":          "/api/drivers",
				"info":             "/api/info",
				"constructorStats": "/api/constructors/stats",
				"authStatus":       "/api/auth/status",
				"login":            "/login",
				"register":         "/register",
				"logout":           "/logout",
			},
		},
	})
}
