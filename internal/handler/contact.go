package handler

import (
	"log"
	"net/http"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Number  string `json:"number"`
	Message string `json:"msg"`
}

// SendContact 保存联系表单。
func SendContact(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req contactReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, "Invalid contact form")
			return
		}

		contact := models.Contact{
			Name:    req.Name,
			Email:   req.Email,
			Number:  req.Number,
			Message: req.Message,
		}
		if err := db.Create(&contact).Error; err != nil {
			log.Printf("save contact error: %v", err)
			util.Error(c, http.StatusInternalServerError, "Failed to save contact")
			return
		}

		util.OK(c, gin.H{"saved": contact})
	}
}
