package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 所有 JSON 响应统一带 success 字段

// OK 成功返回，extra 会并入顶层
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Created 创建成功（201）
func Created(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusCreated, body)
}

// Fail 失败返回，message 字段（认证/表单类接口用）
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"message": msg,
	})
}

// Error 失败返回，error 字段（数据类接口用）
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"error":   msg,
	})
}

// Paginated 列表统一分页信封
func Paginated(c *gin.Context, page, limit int, total int64, data interface{}, count int) {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"page":    page,
		"limit":   limit,
		"total":   total,
		"pages":   pages,
		"count":   count,
		"data":    data,
	})
}
