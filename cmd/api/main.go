package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"femida-backend/internal/config"
	"femida-backend/internal/database"
	"femida-backend/internal/metrics"
	"femida-backend/internal/middleware"
	"femida-backend/internal/modules/audit"
	"femida-backend/internal/modules/auth"
	"femida-backend/internal/modules/booking"
	"femida-backend/internal/modules/catalog"
	"femida-backend/internal/modules/guest"
	"femida-backend/internal/modules/trash"
	"femida-backend/internal/notify"
	jwtsvc "femida-backend/internal/pkg/jwt"
	"femida-backend/internal/pkg/keylock"
	"femida-backend/internal/repository"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	metrics.Register()

	store := repository.NewStore(db)
	userRepo := store.Users()
	buildingRepo := store.Buildings()
	roomRepo := store.Rooms()
	guestRepo := store.Guests()
	bookingRepo := store.Bookings()
	auditRepo := store.Audit()

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	locks := keylock.New()

	var sender notify.Sender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sender = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	} else {
		log.Warn().Msg("Twilio credentials not configured, messages will only be logged")
		sender = notify.NewLogSender(log)
	}

	auditService := audit.NewService(auditRepo, log)
	auditHandler := audit.NewHandler(auditService)

	authService := auth.NewService(userRepo, jwtService, auditService, log)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(booking.NewGormStore(store), auditService, locks, log)
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(buildingRepo, roomRepo, bookingRepo, auditService, log)
	catalogHandler := catalog.NewHandler(catalogService)

	guestService := guest.NewService(guestRepo, auditService, sender, log)
	guestHandler := guest.NewHandler(guestService)

	trashService := trash.NewService(bookingRepo, roomRepo, guestRepo, bookingService, auditService, log)
	trashHandler := trash.NewHandler(trashService)

	startMaintenance(bookingService, log)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(jwtService, userRepo))
		{
			authHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			guestHandler.RegisterRoutes(protected)
			trashHandler.RegisterRoutes(protected)
			auditHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.SuperadminOnly())
			{
				authHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// startMaintenance schedules the nightly sweep: complete bookings whose
// checkout has passed, then recompute every room's status.
func startMaintenance(bookings *booking.Service, log zerolog.Logger) {
	c := cron.New()
	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		completed, err := bookings.CompleteExpired(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("nightly completion sweep failed")
		}
		changed, err := bookings.ResyncRoomStatuses(ctx)
		if err != nil {
			log.Error().Err(err).Msg("nightly room status resync failed")
		}
		log.Info().Int("completed", completed).Int("rooms_changed", changed).Msg("nightly maintenance done")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule maintenance job")
	}
	c.Start()
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if allowedOrigins == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	return cors.New(corsCfg)
}
