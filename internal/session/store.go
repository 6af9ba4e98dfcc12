package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store 管理持久化的登录会话：创建、解析、销毁、续期。
// 会话保存在数据库中，因此可以被服务端随时作废。
// 客户端拿到的 cookie 值是 "token.签名"，签名用 secret 做 HMAC-SHA256；
// 签名不对的值直接按未登录处理，不会碰数据库。
type Store struct {
	db     *gorm.DB
	ttl    time.Duration
	secret []byte
}

// NewStore 构造会话存储，ttlDays <= 0 时使用 7 天。
func NewStore(db *gorm.DB, ttlDays int, secret string) *Store {
	if ttlDays <= 0 {
		ttlDays = 7
	}
	return &Store{
		db:     db,
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
		secret: []byte(secret),
	}
}

// TTL returns the sliding session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) sign(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return token + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify 校验 cookie 值的签名，通过时返回数据库里的裸 token。
func (s *Store) verify(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	token := value[:i]
	sig, err := base64.RawURLEncoding.DecodeString(value[i+1:])
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", false
	}
	return token, true
}

// Create 为用户新建会话，返回签名后的 cookie 值。
func (s *Store) Create(userID uint) (string, error) {
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&sess).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return s.sign(sess.Token), nil
}

// Resolve 根据 cookie 值找到对应用户。签名不对、过期（惰性删除）、
// 用户不存在或被禁用都返回 nil（fail closed）。
func (s *Store) Resolve(value string) (*models.User, error) {
	if value == "" {
		return nil, nil
	}
	token, ok := s.verify(value)
	if !ok {
		return nil, nil
	}

	var sess models.Session
	err := s.db.First(&sess, "token = ?", token).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		_ = s.db.Delete(&models.Session{}, "token = ?", token).Error
		return nil, nil
	}

	var user models.User
	err = s.db.First(&user, sess.UserID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	if !user.IsActive {
		return nil, nil
	}
	return &user, nil
}

// Destroy 删除会话。签名不对或会话不存在也不算错误（幂等）。
func (s *Store) Destroy(value string) error {
	token, ok := s.verify(value)
	if !ok {
		return nil
	}
	if err := s.db.Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// Touch 将会话有效期顺延到现在 + TTL（7 天滑动窗口）。
func (s *Store) Touch(value string) error {
	token, ok := s.verify(value)
	if !ok {
		return nil
	}
	err := s.db.Model(&models.Session{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().Add(s.ttl)).Error
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}
