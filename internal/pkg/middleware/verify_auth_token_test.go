package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, subject string) string {
	t.Helper()
	claims := AccessTokenClaims{
		Email: "ace@example.com",
		Name:  "Ace",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(protected bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	verify := VerifyAuthToken
	if !protected {
		verify = VerifyOptionalAuthToken
	}
	router.GET("/probe", verify, func(c *gin.Context) {
		if user := utils.GetOptionalUserId(c); user != nil {
			c.String(http.StatusOK, user.String())
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestVerifyAuthToken(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	userId := uuid.New()

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"valid token", "Bearer " + signToken(t, "test-secret", userId.String()), http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", userId.String()), http.StatusUnauthorized},
		{"subject not a uuid", "Bearer " + signToken(t, "test-secret", "someone"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthRouter(true)
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			assert.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, userId.String(), recorder.Body.String())
			}
		})
	}
}

func TestVerifyOptionalAuthTokenAllowsAnonymous(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	router := newAuthRouter(false)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
