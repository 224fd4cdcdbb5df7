package profile

import (
	"net/http"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/middleware"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type profileHandler struct {
	profile *ProfileService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := profileHandler{
		profile: &ProfileService{Db: db},
	}

	routes := rg.Group("/profile")
	routes.GET("", middleware.VerifyAuthToken, handler.getProfile)
}

func (h profileHandler) getProfile(c *gin.Context) {
	userId := utils.GetUserId(c)

	if err := h.profile.EnsureUser(h.profile.Db, userId, utils.GetUserEmail(c), utils.GetUserName(c)); err != nil {
		withTrace := reject.AsProblem(err)
		c.JSON(withTrace.Problem.Status, withTrace.Problem)
		return
	}

	profile, err := h.profile.FindById(userId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, profile)
}
