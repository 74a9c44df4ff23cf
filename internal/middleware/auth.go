package middleware

import (
	"net/http"
	"pest_marketplace/internal/models"
	"pest_marketplace/internal/redis"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWT claims
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionStore looks up the server-side session written at login. A token
// whose session entry is gone, e.g. after logout, is rejected even when the
// JWT itself is still valid.
type SessionStore interface {
	GetSession(token string) (*redis.SessionData, error)
}

type AuthMiddleware struct {
	secret   []byte
	tokenTTL time.Duration
	sessions SessionStore
}

func NewAuthMiddleware(secret string, tokenTTL time.Duration, sessions SessionStore) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret), tokenTTL: tokenTTL, sessions: sessions}
}

func (m *AuthMiddleware) GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}

		if len(tokenString) < 8 || !strings.HasPrefix(tokenString, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if _, err := m.sessions.GetSession(tokenString[7:]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("token", tokenString[7:])
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

func CurrentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func CurrentEmail(c *gin.Context) string {
	return c.GetString("email")
}

func CurrentRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString("role"))
}

func CurrentToken(c *gin.Context) string {
	return c.GetString("token")
}
