package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Ключи контекста Gin, выставляемые после успешной аутентификации
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextIsAdmin   = "isAdmin"
)

// AuthMiddleware валидирует bearer-токены внешнего auth-провайдера.
// Выпуск и жизненный цикл сессий - вне ядра: здесь только проверка подписи
// и извлечение субъекта.
type AuthMiddleware struct {
	jwtSecret []byte
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: []byte(jwtSecret)}
}

type authClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// RequireAuth проверяет, аутентифицирован ли пользователь
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "token_missing"})
			c.Abort()
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextIsAdmin, claims.Role == "admin")
		c.Next()
	}
}

// RequireAdmin пропускает только пользователей с ролью admin.
// Должен стоять после RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "error_type": "admin_required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
