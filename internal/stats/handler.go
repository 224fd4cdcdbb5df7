package stats

import (
	"context"
	"net/http"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/middleware"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/pubsub"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type statsHandler struct {
	stats statsService
}

func RegisterRoutesAndSubscriptions(rg *gin.RouterGroup, db *gorm.DB) {
	handler := statsHandler{
		stats: statsService{db: db},
	}

	rg.GET("/games/:id/stats", handler.getGameStats)
	rg.GET("/profile/stats", middleware.VerifyAuthToken, handler.getLifetimeTotals)

	go pubsub.Subscribe(pubsub.SubscriptionHandler{
		SubscriptionId: "gamblor.game.events.stats-sub",
		Handler:        handler.handleGameEvent,
	})
}

func (h statsHandler) getGameStats(c *gin.Context) {
	gameId, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	rows, problem := h.stats.getGameStats(gameId)
	if problem != nil {
		c.JSON(problem.Problem.Status, problem.Problem)
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h statsHandler) getLifetimeTotals(c *gin.Context) {
	totals, problem := h.stats.getLifetimeTotals(utils.GetUserId(c))
	if problem != nil {
		c.JSON(problem.Problem.Status, problem.Problem)
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h statsHandler) handleGameEvent(_ context.Context, message *gcppubsub.Message) {
	event, err := utils.JsonDecodeByteStream[model.Event](message.Data)
	if err != nil {
		log.Warn().Err(err).Msg("Error while parsing game event message")
		return
	}

	// Finished games are the only trigger for a snapshot rewrite.
	if event.Type != model.EventGameFinished {
		message.Ack()
		return
	}

	if err := h.stats.refreshGameStats(event.GameId); err != nil {
		log.Warn().Err(err).Msg("Error while refreshing game stats")
		return
	}

	message.Ack()
}
