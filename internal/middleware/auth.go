package middleware

import (
	"crypto/subtle"
	"stareduca_backend/internal/config"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer 令牌，通过后把会话声明放进上下文
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("student", claims)
		c.Next()
	}
}

// AdminKeyMiddleware 内容后台接口用 X-Admin-Key 鉴权。
// 未配置密钥时全部拒绝。
func AdminKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		if cfg.Admin.APIKey == "" || key == "" ||
			subtle.ConstantTimeCompare([]byte(key), []byte(cfg.Admin.APIKey)) != 1 {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
