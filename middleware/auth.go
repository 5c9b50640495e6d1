package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/g3lasio/owlfenc/config"
	"github.com/g3lasio/owlfenc/model"
	"github.com/g3lasio/owlfenc/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	usernameKey     = "username"
	contractorIDKey = "contractor_id"
)

// Claims identifies the user and the contractor account they act for.
type Claims struct {
	Username     string `json:"username"`
	ContractorID string `json:"contractor_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for username acting as contractorID.
func GenerateToken(username, contractorID string, cfg *config.AuthConfig) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		Username:     username,
		ContractorID: contractorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// AuthMiddleware validates the bearer token and scopes the request to the
// token's contractor.
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token")
			return
		}
		if claims.ContractorID == "" {
			unauthorized(c, "Token has no contractor")
			return
		}

		c.Set(usernameKey, claims.Username)
		c.Set(contractorIDKey, claims.ContractorID)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), logger.ContractorIDKey, claims.ContractorID))

		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "kind": model.KindUnauthorized})
}

func GetUsername(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// GetContractorID returns the contractor the authenticated user acts for.
func GetContractorID(c *gin.Context) string {
	return c.GetString(contractorIDKey)
}
