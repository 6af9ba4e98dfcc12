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

// AdminHandler 负责用户管理和公告接口
type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// 用户管理接口对外的字段子集（不含密码哈希等）
func adminUserPayload(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"isActive":  u.IsActive,
		"createdAt": u.CreatedAt,
		"lastLogin": u.LastLogin,
	}
}

// ListUsers 用户列表：search 匹配用户名/邮箱，role/status 精确过滤。
func (h *AdminHandler) ListUsers(c *gin.Context) {
	query := h.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	switch c.Query("status") {
	case "active":
		query = query.Where("is_active = ?", true)
	case "disabled":
		query = query.Where("is_active = ?", false)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	p := util.ParsePagination(c.Query("page"), c.Query("limit"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("count users error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load users")
		return
	}

	var users []models.User
	if err := query.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&users).Error; err != nil {
		log.Printf("list users error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load users")
		return
	}

	data := make([]gin.H, 0, len(users))
	for i := range users {
		data = append(data, adminUserPayload(&users[i]))
	}

	util.Paginated(c, p.Page, p.Limit, total, data, len(data))
}

type updateRoleReq struct {
	Role string `json:"role"`
}

// UpdateRole 修改用户角色。管理员不能撤销自己的管理员角色，
// 检查必须发生在任何写入之前。
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid role")
		return
	}
	if err := util.ValidateRole(req.Role); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid role")
		return
	}

	actor := middleware.CurrentUser(c)
	if actor != nil && actor.ID == id && req.Role != models.RoleAdmin {
		util.Error(c, http.StatusBadRequest, "You cannot remove your own admin role.")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "User not found")
		} else {
			log.Printf("update role error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	if err := h.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		log.Printf("update role error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	user.Role = req.Role

	util.OK(c, gin.H{"data": adminUserPayload(&user)})
}

type updateStatusReq struct {
	IsActive *bool `json:"isActive"`
}

// UpdateStatus 启用/禁用用户。管理员不能禁用自己的账号。
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		util.Error(c, http.StatusBadRequest, "isActive must be boolean")
		return
	}

	actor := middleware.CurrentUser(c)
	if actor != nil && actor.ID == id && !*req.IsActive {
		util.Error(c, http.StatusBadRequest, "You cannot disable your own account.")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "User not found")
		} else {
			log.Printf("update status error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	if err := h.DB.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
		log.Printf("update status error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to update user")
		return
	}
	user.IsActive = *req.IsActive

	util.OK(c, gin.H{"data": adminUserPayload(&user)})
}

// DeleteUser 删除用户。管理员不能删除自己的账号。
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c)
	if actor != nil && actor.ID == id {
		util.Error(c, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		log.Printf("delete user error: %v", res.Error)
		util.Error(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "User not found")
		return
	}

	util.OK(c, gin.H{
		"message":   "User deleted",
		"deletedId": id,
	})
}

type notificationReq struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// CreateNotification 发布公告（管理员，append-only）。
func (h *AdminHandler) CreateNotification(c *gin.Context) {
	var req notificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Title and message are required")
		return
	}

	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		util.Error(c, http.StatusBadRequest, "Title and message are required")
		return
	}

	notification := models.Notification{
		Title:   title,
		Message: message,
	}
	if actor := middleware.CurrentUser(c); actor != nil {
		id := actor.ID
		notification.CreatedByID = &id
	}

	if err := h.DB.Create(&notification).Error; err != nil {
		log.Printf("create notification error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	util.Created(c, gin.H{"data": notification})
}

// ListNotifications 公告列表，最新在前。管理员接口和普通用户接口共用。
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	p := util.ParsePagination(c.Query("page"), c.Query("limit"))

	var total int64
	if err := h.DB.Model(&models.Notification{}).Count(&total).Error; err != nil {
		log.Printf("count notifications error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load notifications")
		return
	}

	var notifications []models.Notification
	if err := h.DB.Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&notifications).Error; err != nil {
		log.Printf("list notifications error: %v", err)
		util.Error(c, http.StatusInternalServerError, "Failed to load notifications")
		return
	}

	util.Paginated(c, p.Page, p.Limit, total, notifications, len(notifications))
}
