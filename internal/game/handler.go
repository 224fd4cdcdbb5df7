package game

import (
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/middleware"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/utils"
	"github.com/gamblor-app/gamblor-backend/internal/profile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gameHandler struct {
	gameService gameService
}

func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB) {
	handler := gameHandler{
		gameService: gameService{
			db:      db,
			profile: &profile.ProfileService{Db: db},
		},
	}

	routes := rg.Group("/games")
	routes.POST("", middleware.VerifyAuthToken, handler.createGame)
	routes.GET("", middleware.VerifyAuthToken, handler.getGames)
	routes.POST("/:id/join", middleware.VerifyAuthToken, handler.joinGame)
	routes.PATCH("/:id", middleware.VerifyAuthToken, handler.updateGame)
	routes.GET("/:id", handler.getGame)
	routes.GET("/:id/state", middleware.VerifyOptionalAuthToken, handler.getGameState)
}

type CreateGameRequest struct {
	Title            *string `json:"title"`
	AnteDollars      *int64  `json:"anteDollars"`
	AdjudicationMode *string `json:"adjudicationMode"`
	MlbGameId        *string `json:"mlbGameId"`
}

type UpdateGameRequest struct {
	AnteDollars      *int64  `json:"anteDollars"`
	AdjudicationMode *string `json:"adjudicationMode"`
	DeadlineSeconds  *int64  `json:"deadlineSeconds"`
	MlbGameId        *string `json:"mlbGameId"`
	Status           *string `json:"status"`
}

func callerFromContext(c *gin.Context) actor {
	return actor{
		UserId: utils.GetUserId(c),
		Email:  utils.GetUserEmail(c),
		Name:   utils.GetUserName(c),
	}
}

func (gh *gameHandler) createGame(c *gin.Context) {
	body := CreateGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	game, err := gh.gameService.createGame(body, callerFromContext(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, game)
}

func (gh *gameHandler) getGames(c *gin.Context) {
	page, err := utils.NewPageRequest(c)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	games, gamesCount, err := gh.gameService.getGames(page)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	response := utils.NewPageResponse[model.Game]().
		WithItems(games).
		WithItemCount(*gamesCount)

	c.JSON(http.StatusOK, response.Build())
}

// joinGame treats the path segment as the game's join pin, not its id.
func (gh *gameHandler) joinGame(c *gin.Context) {
	pin := c.Param("id")
	if !isNumericPin(pin) {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	player, err := gh.gameService.joinGame(pin, callerFromContext(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusCreated, player)
}

func (gh *gameHandler) updateGame(c *gin.Context) {
	gameId, parseErr := uuid.Parse(c.Param("id"))
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	body := UpdateGameRequest{}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, reject.BodyParseProblem())
		return
	}

	game, err := gh.gameService.updateGame(gameId, body, callerFromContext(c))
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (gh *gameHandler) getGame(c *gin.Context) {
	gameId, parseErr := uuid.Parse(c.Param("id"))
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	summary, err := gh.gameService.getGame(gameId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (gh *gameHandler) getGameState(c *gin.Context) {
	gameId, parseErr := uuid.Parse(c.Param("id"))
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, reject.RequestParamsProblem())
		return
	}

	callerUserId := utils.GetOptionalUserId(c)
	state, err := gh.gameService.getGameState(gameId, callerUserId)
	if err != nil {
		c.JSON(err.Problem.Status, err.Problem)
		return
	}

	if state.LastEventId != nil {
		etag := stateETag(gameId, *state.LastEventId, callerUserId)
		c.Header("ETag", etag)
		c.Header("Last-Modified", state.LastEventAt.UTC().Format(http.TimeFormat))
		c.Header("Cache-Control", "max-age=5, stale-while-revalidate=30")

		if c.Request.Header.Get("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	c.JSON(http.StatusOK, state)
}

// stateETag derives a conditional-request validator from the latest audit
// fact, scoped per caller so personalized fields never leak between users.
func stateETag(gameId, lastEventId uuid.UUID, callerUserId *uuid.UUID) string {
	caller := "anonymous"
	if callerUserId != nil {
		caller = callerUserId.String()
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%s:%s", gameId, lastEventId, caller)
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", h.Sum64()))
}
