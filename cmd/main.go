package main

import (
	"net/http"
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/adjudication"
	"github.com/gamblor-app/gamblor-backend/internal/game"
	"github.com/gamblor-app/gamblor-backend/internal/ledger"
	"github.com/gamblor-app/gamblor-backend/internal/pick"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/middleware"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/pubsub"
	"github.com/gamblor-app/gamblor-backend/internal/profile"
	"github.com/gamblor-app/gamblor-backend/internal/stats"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupViper()
	setupZerolog()
	pubsub.InitPubSub()
	db := setupDb()
	apiRouter := setupApiRouter(db)

	defer func() { pubsub.CloseClient() }()

	port := viper.Get("PORT").(string)
	server := &http.Server{
		Addr:         port,
		Handler:      apiRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	server.ListenAndServe()
}

func setupDb() *gorm.DB {
	dbUrl := viper.Get("DB_URL").(string)

	db, err := gorm.Open(postgres.Open(dbUrl), &gorm.Config{})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	sqlDb, _ := db.DB()

	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return db
}

func setupApiRouter(db *gorm.DB) *gin.Engine {
	apiRouter := gin.Default()
	routerGroup := apiRouter.Group("/gamblor-api")

	middleware.RegisterGlobalMiddleware(apiRouter)

	profile.RegisterRoutes(routerGroup, db)
	game.RegisterRoutes(routerGroup, db)
	pick.RegisterRoutes(routerGroup, db)
	adjudication.RegisterRoutes(routerGroup, db)
	ledger.RegisterRoutes(routerGroup, db)
	stats.RegisterRoutesAndSubscriptions(routerGroup, db)

	return apiRouter
}

func setupViper() {
	viper.AutomaticEnv()
	viper.SetConfigFile("./.env")
	_ = viper.ReadInConfig()
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
