package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func contextWithHeaders(t *testing.T, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func TestMiddleware_ValidToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"id": float64(7), "role": "USER"})
	c := contextWithHeaders(t, map[string]string{"Authorization": "Bearer " + token})

	Middleware(testSecret)(c)

	caller := CallerFrom(c)
	assert.True(t, caller.IsAuthenticated)
	assert.Equal(t, int64(7), caller.UserID)
	assert.Equal(t, "USER", caller.Role)
	assert.Equal(t, "Bearer "+token, caller.Authorization)
}

func TestMiddleware_UserIdClaimFallback(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"userId": float64(12), "role": "ADMIN"})
	c := contextWithHeaders(t, map[string]string{"Authorization": "Bearer " + token})

	Middleware(testSecret)(c)

	caller := CallerFrom(c)
	assert.True(t, caller.IsAuthenticated)
	assert.Equal(t, int64(12), caller.UserID)
	assert.True(t, caller.IsAdmin())
}

func TestMiddleware_InvalidToken(t *testing.T) {
	c := contextWithHeaders(t, map[string]string{"Authorization": "Bearer not-a-jwt"})

	Middleware(testSecret)(c)

	caller := CallerFrom(c)
	assert.False(t, caller.IsAuthenticated)
	assert.Equal(t, int64(0), caller.UserID)
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": float64(7)}).
		SignedString([]byte("some-other-secret"))
	assert.NoError(t, err)
	c := contextWithHeaders(t, map[string]string{"Authorization": "Bearer " + token})

	Middleware(testSecret)(c)

	assert.False(t, CallerFrom(c).IsAuthenticated)
}

func TestMiddleware_APIKeyWithoutToken(t *testing.T) {
	c := contextWithHeaders(t, map[string]string{"X-Api-Key": "partner-secret"})

	Middleware(testSecret)(c)

	caller := CallerFrom(c)
	assert.False(t, caller.IsAuthenticated)
	assert.Equal(t, "partner-secret", caller.APIKey)
	assert.True(t, caller.IsPartner("partner-secret"))
	assert.False(t, caller.IsPartner("different"))
}

func TestCaller_IsPartner_EmptyConfiguredKey(t *testing.T) {
	caller := Caller{APIKey: ""}
	assert.False(t, caller.IsPartner(""))
}

func TestCredentials_Apply(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	cred := Credentials{Authorization: "Bearer abc", APIKey: "key-1"}
	cred.Apply(req)

	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	assert.Equal(t, "key-1", req.Header.Get("X-Api-Key"))

	empty := httptest.NewRequest(http.MethodPost, "/", nil)
	Credentials{}.Apply(empty)
	assert.Empty(t, empty.Header.Get("Authorization"))
	assert.Empty(t, empty.Header.Get("X-Api-Key"))
}
