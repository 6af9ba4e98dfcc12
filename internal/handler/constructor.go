package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ConstructorHandler 负责车队（constructor）CRUD 接口
type ConstructorHandler struct {
	DB *gorm.DB
}

func NewConstructorHandler(db *gorm.DB) *ConstructorHandler {
	return &ConstructorHandler{DB: db}
}

// paramID 解析路径里的 :id，非法时写出 400 并返回 false。
func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// List 车队列表：season/team 精确过滤，search 模糊匹配，minPoints/maxPoints
// 区间过滤，统一分页信封，按积分榜名次排序。
func (h *ConstructorHandler) List(c *gin.Context) {
	query := h.DB.Model(&models.Constructor{})

	if season := c.Query("season"); season != "" {
		query = query.Where("season = ?", season)
	}
	if team := c.Query("team"); team != "" {
		query = query.Where("team = ?", team)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(team) LIKE ? OR LOWER(drivers) LIKE ?", pattern, pattern)
	}
	if minPoints := c.Query("minPoints"); minPoints != "" {
		query = query.Where("points >= ?", minPoints)
	}
	if maxPoints := c.Query("maxPoints"); maxPoints != "" {
		query = query.Where("points <= ?", maxPoints)
	}

	p := util.ParsePagination(c.Query("page"), c.Query("limit"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("count constructors error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load constructors")
		return
	}

	var constructors []models.Constructor
	if err := query.Order("position ASC").Offset(p.Offset).Limit(p.Limit).Find(&constructors).Error; err != nil {
		log.Printf("list constructors error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load constructors")
		return
	}

	util.Paginated(c, p.Page, p.Limit, total, constructors, len(constructors))
}

// Get 按 id 查单个车队。
func (h *ConstructorHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var constructor models.Constructor
	if err := h.DB.First(&constructor, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "Constructor not found")
		} else {
			log.Printf("get constructor error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to load constructor")
		}
		return
	}

	util.OK(c, gin.H{"data": constructor})
}

// constructorReq 创建/更新共用。Position 用指针区分 0 和缺失。
type constructorReq struct {
	Position *int   `json:"position"`
	Team     string `json:"team"`
	Color    string `json:"color"`
	Drivers  string `json:"drivers"`
	Points   int    `json:"points"`
	Wins     int    `json:"wins"`
	Podiums  int    `json:"podiums"`
	Season   int    `json:"season"`
}

func (r *constructorReq) toModel() models.Constructor {
	color := r.Color
	if color == "" {
		color = "#FF0000"
	}
	season := r.Season
	if season == 0 {
		season = 2024
	}
	return models.Constructor{
		Position: *r.Position,
		Team:     strings.TrimSpace(r.Team),
		Color:    color,
		Drivers:  strings.TrimSpace(r.Drivers),
		Points:   r.Points,
		Wins:     r.Wins,
		Podiums:  r.Podiums,
		Season:   season,
	}
}

func (r *constructorReq) validate() string {
	if strings.TrimSpace(r.Team) == "" || strings.TrimSpace(r.Drivers) == "" || r.Position == nil {
		return "Position, team, and drivers are required"
	}
	return ""
}

// Create 新建车队（管理员）。
func (h *ConstructorHandler) Create(c *gin.Context) {
	var req constructorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Position, team, and drivers are required")
		return
	}
	if msg := req.validate(); msg != "" {
		util.Error(c, http.StatusBadRequest, msg)
		return
	}

	constructor := req.toModel()
	if err := h.DB.Create(&constructor).Error; err != nil {
		log.Printf("create constructor error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to save constructor")
		return
	}

	util.Created(c, gin.H{
		"data":    constructor,
		"message": "Constructor created successfully",
	})
}

// Update 整体更新车队（管理员）。
func (h *ConstructorHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req constructorReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Position, team, and drivers are required")
		return
	}
	if msg := req.validate(); msg != "" {
		util.Error(c, http.StatusBadRequest, msg)
		return
	}

	var existing models.Constructor
	if err := h.DB.First(&existing, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "Constructor not found")
		} else {
			log.Printf("update constructor error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to save constructor")
		}
		return
	}

	updated := req.toModel()
	updated.ID = existing.ID
	if err := h.DB.Save(&updated).Error; err != nil {
		log.Printf("update constructor error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to save constructor")
		return
	}

	util.OK(c, gin.H{
		"data":    updated,
		"message": "Constructor updated successfully",
	})
}

// Delete 删除车队（管理员）。
func (h *ConstructorHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	res := h.DB.Delete(&models.Constructor{}, id)
	if res.Error != nil {
		log.Printf("delete constructor error: %v", res.Error)
		util.Error(c, http.StatusInternalServerError, "Failed to delete constructor")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "Constructor not found")
		return
	}

	util.OK(c, gin.H{
		"message":   "Constructor deleted successfully",
		"deletedId": id,
	})
}

// Stats 车队汇总统计（公开）。
func (h *ConstructorHandler) Stats(c *gin.Context) {
	var constructors []models.Constructor
	if err := h.DB.Find(&constructors).Error; err != nil {
		log.Printf("constructor stats error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	totalPoints, totalWins, totalPodiums := 0, 0, 0
	for _, con := range constructors {
		totalPoints += con.Points
		totalWins += con.Wins
		totalPodiums += con.Podiums
	}
	averagePoints := 0.0
	if len(constructors) > 0 {
		averagePoints = float64(totalPoints) / float64(len(constructors))
	}

	util.OK(c, gin.H{
		"data": gin.H{
			"totalConstructors": len(constructors),
			"totalPoints":       totalPoints,
			"totalWins":         totalWins,
			"totalPodiums":      totalPodiums,
			"averagePoints":     averagePoints,
		},
	})
}

// ExportXLSX 导出车队积分榜为 XLSX（管理员）。
func (h *ConstructorHandler) ExportXLSX(c *gin.Context) {
	var constructors []models.Constructor
	if err := h.DB.Order("position ASC").Find(&constructors).Error; err != nil {
		log.Printf("export constructors error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load constructors")
		return
	}

	f := excelize.NewFile()
	sheetName := "Constructors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Position", "Team", "Drivers", "Points", "Wins", "Podiums", "Season"}
	for i, head := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, con := range constructors {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), con.Position)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), con.Team)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), con.Drivers)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), con.Points)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), con.Wins)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), con.Podiums)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), con.Season)
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 25)
	f.SetColWidth(sheetName, "D", "G", 10)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"constructors_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		log.Printf("write xlsx error: %v", err)
	}
}
