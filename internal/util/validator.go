package util

import (
	"fmt"
	"strings"
)

// ValidateUsername 验证用户名（3-30 个字符，不含空白）
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if len(username) < 3 || len(username) > 30 {
		return fmt.Errorf("username must be between 3 and 30 characters")
	}
	if strings.ContainsAny(username, " \t\n") {
		return fmt.Errorf("username must not contain whitespace")
	}
	return nil
}

// ValidatePassword 验证密码长度（至少 8 位）
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	return nil
}

// ValidateRole 验证角色取值
func ValidateRole(role string) error {
	if role != "user" && role != "admin" {
		return fmt.Errorf("invalid role %q", role)
	}
	return nil
}

// NormalizeEmail 邮箱统一小写并去掉首尾空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
