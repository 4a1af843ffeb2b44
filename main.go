package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/studydex/studydex/backend/handlers"
	"github.com/studydex/studydex/backend/middleware"
	webmodels "github.com/studydex/studydex/backend/models"
	"github.com/studydex/studydex/studydex"
	"github.com/studydex/studydex/studydex/collection"
	"github.com/studydex/studydex/studydex/database"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/studydex/studydex/studydex/gacha"
	"github.com/studydex/studydex/studydex/leveling"
	"github.com/studydex/studydex/studydex/logger"
	"github.com/studydex/studydex/studydex/social"
	"github.com/studydex/studydex/studydex/stats"
	"github.com/studydex/studydex/studydex/study"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler("StudyDex")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting StudyDex API",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("type", "system"))

	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := studydex.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	customHandler.SetLevel(cfg.Log.Level)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...")
	db, err := database.New(ctx, database.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Database:     cfg.DB.Database,
		PoolSize:     cfg.DB.PoolSize,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxLifetime:  cfg.DB.MaxLifetime,
	})
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Database ready")

	redisClient, err := database.NewRedis(ctx, database.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		slog.Error("Failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	if redisClient == nil {
		slog.Warn("Redis not configured, leaderboard caching disabled",
			slog.String("type", "system"))
	}

	bunDB := db.BunDB()
	repos := webmodels.NewRepositories(
		repositories.NewUserRepository(bunDB),
		repositories.NewCardRepository(bunDB),
		repositories.NewUserCardRepository(bunDB),
		repositories.NewPackRepository(bunDB),
		repositories.NewSessionRepository(bunDB),
		repositories.NewLevelRepository(bunDB),
		repositories.NewFriendRepository(bunDB),
		repositories.NewGiftRepository(bunDB),
		repositories.NewMailRepository(bunDB),
	)

	txManager := economy.NewTransactionManager(bunDB)
	guard := economy.NewUserGuard()

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()
	guard.StartCleanupRoutine(appCtx)

	levelingService := leveling.NewService(repos.Level)
	gachaService := gacha.NewService(
		gacha.NewRepository(repos.Pack, repos.User, repos.Card, txManager),
		guard,
		nil,
	)
	studyService := study.NewService(
		study.NewRepository(repos.User, repos.Session, txManager),
		levelingService,
		guard,
	)
	statsService, err := stats.NewService(repos.Session, repos.User, redisClient)
	if err != nil {
		slog.Error("Failed to initialize stats service", slog.Any("error", err))
		os.Exit(1)
	}
	collectionService := collection.NewService(repos.UserCard, repos.Card, repos.User)
	socialService, err := social.NewService(repos.User, repos.Friend, repos.Gift, repos.Mail, txManager)
	if err != nil {
		slog.Error("Failed to initialize social service", slog.Any("error", err))
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:      "StudyDex API",
		ServerHeader: "StudyDex",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Web.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With",
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:     cfg,
		DB:         db,
		Redis:      redisClient,
		Repos:      repos,
		Gacha:      gachaService,
		Study:      studyService,
		Leveling:   levelingService,
		Stats:      statsService,
		Collection: collectionService,
		Social:     socialService,
		Version:    version,
		Commit:     commit,
	}

	setupRoutes(app, webApp)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.Any("error", err))
		}
	}()

	<-c
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.Any("error", err))
	}

	if redisClient != nil {
		redisClient.Close()
	}
	db.Close()

	slog.Info("Shutdown complete")
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "StudyDex API",
			"version": webApp.Version,
			"status":  "running",
		})
	})

	api := app.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Identity provider webhook
	api.Post("/hook", middleware.HookRateLimit(), handlers.IdentityHook(webApp))

	// Card catalog and packs
	api.Get("/cards", handlers.ListCards(webApp))
	api.Get("/pack", handlers.ListPacks(webApp))
	api.Get("/pack/:code", handlers.GetPack(webApp))
	api.Post("/pack/open/:code/:userId", handlers.OpenPack(webApp))

	// Study sessions
	api.Post("/session/start", handlers.StartSession(webApp))
	api.Get("/session/:id", handlers.GetSession(webApp))
	api.Post("/session/:id/complete", handlers.CompleteSession(webApp))
	api.Post("/session/:id/fail", handlers.FailSession(webApp))

	// Users and collections
	api.Get("/user/search", handlers.SearchUsers(webApp))
	api.Get("/user/:userId", handlers.GetUser(webApp))
	api.Get("/user/:userId/collection", handlers.GetCollection(webApp))
	api.Get("/user/:userId/cardDisplay", handlers.GetCardDisplay(webApp))
	api.Put("/user/:userId/cardDisplay", handlers.UpdateCardDisplay(webApp))
	api.Get("/user/:userId/stats/weekly", handlers.WeeklyStats(webApp))

	// Social
	api.Get("/user/:userId/friends", handlers.ListFriends(webApp))
	api.Delete("/user/:userId/friends/:friendId", handlers.RemoveFriend(webApp))
	api.Get("/user/:userId/friends/requests", handlers.PendingFriendRequests(webApp))
	api.Post("/user/:userId/friends/requests", handlers.SendFriendRequest(webApp))
	api.Post("/friends/requests/:id/accept", handlers.AcceptFriendRequest(webApp))
	api.Post("/friends/requests/:id/decline", handlers.DeclineFriendRequest(webApp))
	api.Post("/user/:userId/gifts", handlers.SendGift(webApp))
	api.Get("/user/:userId/gifts/:recipientId", handlers.CanSendGift(webApp))
	api.Get("/user/:userId/mail", handlers.Mailbox(webApp))
	api.Post("/mail/:id/collect", handlers.CollectMail(webApp))

	// Leaderboards
	api.Get("/user/:userId/leaderboards", handlers.Leaderboards(webApp))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return c.Status(404).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested endpoint does not exist",
		})
	})
}
