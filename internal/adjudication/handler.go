package adjudication

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

type adjudicationHandler struct {
	adjudicationService adjudicationService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := adjudicationHandler{
		adjudicationService: adjudicationService{db: db},
	}

	routes := rg.Group("/games/:id/innings/:inningId")
	routes.POST("/adjudicate", middleware.VerifyAuthToken, handler.adjudicate)
	routes.POST("/lock", middleware.VerifyAuthToken, handler.setLock)
}

type AdjudicateRequest struct {
	Result string `json:"result"`
}

type SetLockRequest struct {
	Locked bool `json:"locked"`
}

func (ah *adjudicationHandler) adjudicate(c *gin.Context) {
	gameId, gameErr := uuid.Parse(c.Param("id"))
	inningId, inningErr := uuid.Parse(c.Param("inningId"))
	if gameErr != nil || inningErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := AdjudicateRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	response, err := ah.adjudicationService.adjudicate(gameId, inningId, utils.GetUserId(c), model.ChoiceCode(body.Result))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (ah *adjudicationHandler) setLock(c *gin.Context) {
	gameId, gameErr := uuid.Parse(c.Param("id"))
	inningId, inningErr := uuid.Parse(c.Param("inningId"))
	if gameErr != nil || inningErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := SetLockRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	inning, err := ah.adjudicationService.setLock(gameId, inningId, utils.GetUserId(c), body.Locked)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, inning)
}
