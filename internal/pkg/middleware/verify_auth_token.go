package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	accessTokenRequired string = "error.token.required"
	accessTokenInvalid  string = "error.token.invalid"
)

// Claims issued by the external identity layer. The engine only needs the
// subject (user id) plus display fields for first-sight profile upserts.
type AccessTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

func VerifyAuthToken(context *gin.Context) {
	claims, problem := parseBearerToken(context)
	if problem != nil {
		context.AbortWithStatusJSON(problem.Status, *problem)
		return
	}

	userId, err := uuid.Parse(claims.Subject)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Token subject is not a user id: %s", claims.Subject))
		context.AbortWithStatusJSON(
			http.StatusUnauthorized,
			reject.NewProblem().
				WithTitle("Cannot verify access token").
				WithStatus(http.StatusUnauthorized).
				WithCode(accessTokenInvalid).
				Build())
		return
	}

	utils.SetUserCtx(userId, claims.Email, claims.Name, context)
}

// VerifyOptionalAuthToken lets anonymous requests through with no user in
// context. Used by read endpoints that personalize when they can.
func VerifyOptionalAuthToken(context *gin.Context) {
	if strings.TrimSpace(context.Request.Header.Get("Authorization")) == "" {
		return
	}
	VerifyAuthToken(context)
}

func parseBearerToken(context *gin.Context) (*AccessTokenClaims, *reject.Problem) {
	authHeader := context.Request.Header.Get("Authorization")
	tokenValue := strings.TrimSpace(strings.ReplaceAll(authHeader, "Bearer", ""))
	if tokenValue == "" {
		log.Warn().Msg("Token missing: 401")
		problem := reject.NewProblem().
			WithTitle("Missing access token").
			WithStatus(http.StatusUnauthorized).
			WithCode(accessTokenRequired).
			Build()
		return nil, &problem
	}

	claims := AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, &claims, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("JWT_SECRET")), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		log.Warn().Msg(fmt.Sprintf("Error verifying token: %v", err))
		problem := reject.NewProblem().
			WithTitle("Cannot verify access token").
			WithStatus(http.StatusUnauthorized).
			WithCode(accessTokenInvalid).
			Build()
		return nil, &problem
	}

	return &claims, nil
}
