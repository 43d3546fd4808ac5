package main

import (
	"net/http"
	"time"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/ledger"
	"github.com/chiptally/chiptally-backend/internal/pkg/middleware"
	"github.com/chiptally/chiptally-backend/internal/pkg/pubsub"
	"github.com/chiptally/chiptally-backend/internal/pkg/tablelock"
	pkgws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"github.com/chiptally/chiptally-backend/internal/player"
	"github.com/chiptally/chiptally-backend/internal/session"
	"github.com/chiptally/chiptally-backend/internal/table"
	"github.com/chiptally/chiptally-backend/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/jpillora/backoff"
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

	port := viper.GetString("PORT")
	server := &http.Server{
		Addr:    port,
		Handler: apiRouter,
		// no WriteTimeout: the /ws route holds connections open for hours
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Msg("Listening on " + port)
	server.ListenAndServe()
}

func setupDb() *gorm.DB {
	dbUrl := viper.GetString("DB_URL")

	b := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    10 * time.Second,
		Factor: 2,
		Jitter: true,
	}
	deadline := time.Now().Add(60 * time.Second)

	var db *gorm.DB
	var err error
	for {
		db, err = gorm.Open(postgres.Open(dbUrl), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		log.Warn().Err(err).Msg("Database not reachable yet, retrying")
		time.Sleep(b.Duration())
	}

	sqlDb, _ := db.DB()

	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return db
}

func setupApiRouter(db *gorm.DB) *gin.Engine {
	apiRouter := gin.Default()
	routerGroup := apiRouter.Group("/")

	middleware.RegisterGlobalMiddleware(apiRouter)

	hub := pkgws.NewRoomHub()
	locks := tablelock.New()

	activityService := activity.RegisterRoutes(routerGroup, db, hub)
	playerService := player.RegisterRoutes(routerGroup, db, activityService, locks)
	table.RegisterRoutes(routerGroup, db, activityService)
	session.RegisterRoutes(routerGroup, db, activityService)
	ledger.RegisterRoutes(routerGroup, db, hub, activityService, locks)
	ws.RegisterRoutes(routerGroup, hub, playerService)

	return apiRouter
}

func setupViper() {
	viper.AutomaticEnv()
	viper.SetConfigFile("./.env")
	viper.ReadInConfig()
	viper.SetDefault("PORT", ":4000")
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
