package ledger

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

type ledgerHandler struct {
	ledgerService ledgerService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := ledgerHandler{
		ledgerService: ledgerService{db: db},
	}

	routes := rg.Group("/games/:id/ledger")
	routes.GET("", middleware.VerifyAuthToken, handler.getEntries)
}

func (lh *ledgerHandler) getEntries(c *gin.Context) {
	gameId, parseErr := uuid.Parse(c.Param("id"))
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	page, err := utils.NewPageRequest(c)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	entries, entryCount, err := lh.ledgerService.getEntries(gameId, page)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	response := utils.NewPageResponse[model.LedgerEntry]().
		WithItems(entries).
		WithItemCount(*entryCount)

	c.JSON(http.StatusOK, response.Build())
}
