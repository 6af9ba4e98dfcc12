package util

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// 与原有数据兼容：bcrypt cost 固定为 10
const bcryptCost = 10

// HashPassword 使用 bcrypt 生成带随机 salt 的密码哈希。
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword 验证明文密码与存储的哈希是否匹配。
func CheckPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// LooksHashed 判断一个值是否已经是 bcrypt 哈希，避免二次哈希。
func LooksHashed(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
