package handler

import (
	"fmt"
	"net/http"

	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const AccessKeyHeader = "X-Access-Key"

// ValidateAccessKeyHash 啟動時檢查設定的 bcrypt hash 格式
func ValidateAccessKeyHash(hash string) error {
	if hash == "" {
		return nil
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return fmt.Errorf("invalid access key hash: %w", err)
	}
	return nil
}

// AccessGate 取代原本畫面上寫死的共用密碼。這只是暫時的畫面閘門，不是正式的身分驗證；
// service 層完全不知道有這個檢查。hash 為空時不做檢查。
func AccessGate(screen string, hash string) gin.HandlerFunc {
	log := logger.WithComponent("access").With(zap.String("screen", screen))
	if hash == "" {
		log.Warn("access gate disabled, no key hash configured")
		return func(c *gin.Context) { c.Next() }
	}

	hashed := []byte(hash)
	return func(c *gin.Context) {
		key := c.GetHeader(AccessKeyHeader)
		if key == "" || bcrypt.CompareHashAndPassword(hashed, []byte(key)) != nil {
			log.Warn("access denied", zap.String("path", c.Request.URL.Path), zap.String("client_ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid access key"})
			return
		}
		c.Next()
	}
}
