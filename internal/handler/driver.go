package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DriverHandler 负责车手 CRUD 接口
type DriverHandler struct {
	DB *gorm.DB
}

func NewDriverHandler(db *gorm.DB) *DriverHandler {
	return &DriverHandler{DB: db}
}

// List 车手列表：team/season 精确过滤，search 匹配姓名/车队/国籍，
// 按积分降序，统一分页信封。
func (h *DriverHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.Driver{})

	if team := c.Query("team"); team != "" {
		query = query.Where("team = ?", team)
	}
	if season := c.Query("season"); season != "" {
		query = query.Where("season = ?", season)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(team) LIKE ? OR LOWER(nationality) LIKE ?",
			pattern, pattern, pattern)
	}

	p := util.ParsePagination(c.Query("page"), c.Query("limit"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("count drivers error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load drivers")
		return
	}

	var drivers []models.Driver
	if err := query.Preload("Constructor").
		Order("points DESC").Offset(p.Offset).Limit(p.Limit).
		Find(&drivers).Error; err != nil {
		log.Printf("list drivers error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load drivers")
		return
	}

	util.Paginated(c, p.Page, p.Limit, total, drivers, len(drivers))
}

type createDriverReq struct {
	Name          string `json:"name"`
	Team          string `json:"team"`
	Points        int    `json:"points"`
	Wins          int    `json:"wins"`
	Podiums       int    `json:"podiums"`
	ConstructorID *uint  `json:"constructorId"`
}

// Create 新建车手（管理员）。车队引用优先用显式 constructorId，
// 否则按车队名匹配；都找不到则拒绝。
func (h *DriverHandler) Create(c *gin.Context) {
	var req createDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Name and team are required")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Team = strings.TrimSpace(req.Team)
	if req.Name == "" || req.Team == "" {
		util.Error(c, http.StatusBadRequest, "Name and team are required")
		return
	}

	var constructorRef *uint
	if req.ConstructorID != nil {
		var constructor models.Constructor
		if err := h.DB.First(&constructor, *req.ConstructorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				util.Error(c, http.StatusBadRequest, "Invalid constructor id")
			} else {
				log.Printf("driver constructor lookup error: %v", err)
				util.Error(c, http.StatusInternalServerError, "Failed to save driver")
			}
			return
		}
		constructorRef = &constructor.ID
	} else {
		var constructor models.Constructor
		err := h.DB.Where("team = ?", req.Team).First(&constructor).Error
		if err == nil {
			constructorRef = &constructor.ID
		} else if err != gorm.ErrRecordNotFound {
			log.Printf("driver constructor lookup error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to save driver")
			return
		}
	}

	if constructorRef == nil {
		util.Error(c, http.StatusBadRequest, "Constructor not found. Create the constructor first.")
		return
	}

	driver := models.Driver{
		Name:          req.Name,
		Team:          req.Team,
		ConstructorID: constructorRef,
		Nationality:   "Unknown",
		Points:        req.Points,
		Wins:          req.Wins,
		Podiums:       req.Podiums,
		Season:        2024,
	}
	if err := h.DB.Create(&driver).Error; err != nil {
		log.Printf("create driver error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to save driver")
		return
	}

	util.Created(c, gin.H{
		"data": gin.H{
			"id":      driver.ID,
			"name":    driver.Name,
			"team":    driver.Team,
			"points":  driver.Points,
			"wins":    driver.Wins,
			"podiums": driver.Podiums,
		},
		"message": "Driver created successfully",
	})
}

type updateDriverReq struct {
	Points *int `json:"points"`
}

// Update 更新车手积分（管理员）。只有积分可改。
func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateDriverReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Points == nil {
		util.Error(c, http.StatusBadRequest, "Points are required")
		return
	}

	var driver models.Driver
	if err := h.DB.First(&driver, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "Driver not found")
		} else {
			log.Printf("update driver error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to save driver")
		}
		return
	}

	if err := h.DB.Model(&driver).Update("points", *req.Points).Error; err != nil {
		log.Printf("update driver error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to save driver")
		return
	}
	driver.Points = *req.Points

	util.OK(c, gin.H{
		"data": gin.H{
			"id":      driver.ID,
			"name":    driver.Name,
			"team":    driver.Team,
			"points":  driver.Points,
			"wins":    driver.Wins,
			"podiums": driver.Podiums,
		},
		"message": "Driver updated successfully",
	})
}

// Delete 删除车手（管理员）。
func (h *DriverHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	res := h.DB.Delete(&models.Driver{}, id)
	if res.Error != nil {
		log.Printf("delete driver error: %v", res.Error)
		util.Error(c, http.StatusInternalServerError, "Failed to delete driver")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "Driver not found")
		return
	}

	util.OK(c, gin.H{
		"message":   "Driver deleted successfully",
		"deletedId": id,
	})
}
