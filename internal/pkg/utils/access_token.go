package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	userIdCtxKey    string = "userId"
	userEmailCtxKey string = "userEmail"
	userNameCtxKey  string = "userName"
)

func GetUserId(ctx *gin.Context) uuid.UUID {
	return getCtxValue(userIdCtxKey, ctx).(uuid.UUID)
}

// GetOptionalUserId returns a nil pointer on unauthenticated requests.
func GetOptionalUserId(ctx *gin.Context) *uuid.UUID {
	value, exists := ctx.Get(userIdCtxKey)
	if !exists {
		return nil
	}
	id := value.(uuid.UUID)
	return &id
}

func GetUserEmail(ctx *gin.Context) string {
	return getCtxValue(userEmailCtxKey, ctx).(string)
}

func GetUserName(ctx *gin.Context) string {
	return getCtxValue(userNameCtxKey, ctx).(string)
}

func getCtxValue(key string, ctx *gin.Context) any {
	value, exists := ctx.Get(key)
	if !exists {
		ctx.AbortWithStatus(http.StatusInternalServerError)
	}
	return value
}

func SetUserCtx(userId uuid.UUID, email, name string, ctx *gin.Context) {
	ctx.Set(userIdCtxKey, userId)
	ctx.Set(userEmailCtxKey, email)
	ctx.Set(userNameCtxKey, name)
}
