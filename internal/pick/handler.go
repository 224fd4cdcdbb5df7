package pick

import (
	"net/http"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/middleware"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pickHandler struct {
	pickService pickService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := pickHandler{
		pickService: pickService{db: db},
	}

	routes := rg.Group("/games/:id")
	routes.POST("/innings/:inningId/picks", middleware.VerifyAuthToken, handler.submitPick)
	routes.POST("/picks/:pickId/amend", middleware.VerifyAuthToken, handler.amendPick)
}

type SubmitPickRequest struct {
	ChoiceCode string `json:"choiceCode"`
}

type AmendPickRequest struct {
	NewCode string `json:"newCode"`
}

func (ph *pickHandler) submitPick(c *gin.Context) {
	gameId, gameErr := uuid.Parse(c.Param("id"))
	inningId, inningErr := uuid.Parse(c.Param("inningId"))
	if gameErr != nil || inningErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := SubmitPickRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	pick, err := ph.pickService.submitPick(gameId, inningId, utils.GetUserId(c), model.ChoiceCode(body.ChoiceCode))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, pick)
}

func (ph *pickHandler) amendPick(c *gin.Context) {
	gameId, gameErr := uuid.Parse(c.Param("id"))
	pickId, pickErr := uuid.Parse(c.Param("pickId"))
	if gameErr != nil || pickErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := AmendPickRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	pick, err := ph.pickService.amendPick(gameId, pickId, utils.GetUserId(c), model.ChoiceCode(body.NewCode))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, pick)
}
