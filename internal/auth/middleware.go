package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "auth.caller"

// Middleware resolves the request's Caller from the Authorization bearer token
// (HS256) and the X-Api-Key header, and stores it in the gin context. It never
// aborts: a missing or invalid token yields an unauthenticated caller and the
// service layer rejects operations that need more.
func Middleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := Caller{APIKey: c.GetHeader("X-Api-Key")}

		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok {
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err == nil && tok.Valid {
				if claims, ok := tok.Claims.(jwt.MapClaims); ok {
					caller.IsAuthenticated = true
					caller.UserID = userIDClaim(claims)
					caller.Role, _ = claims["role"].(string)
					caller.Authorization = "Bearer " + raw
				}
			}
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the Caller resolved by Middleware, or a zero Caller when
// the middleware did not run.
func CallerFrom(c *gin.Context) Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(Caller); ok {
			return caller
		}
	}
	return Caller{}
}

// SetCaller injects a caller directly, for tests.
func SetCaller(c *gin.Context, caller Caller) {
	c.Set(callerKey, caller)
}

// userIDClaim accepts either "id" or "userId", the two claim names the
// identity provider has used over time.
func userIDClaim(claims jwt.MapClaims) int64 {
	for _, key := range []string{"id", "userId"} {
		if v, ok := claims[key]; ok {
			if f, ok := v.(float64); ok {
				return int64(f)
			}
		}
	}
	return 0
}
