package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/marndt/prompt-vault/internal/config"
	"github.com/marndt/prompt-vault/internal/database"
	"github.com/marndt/prompt-vault/internal/handler"
	"github.com/marndt/prompt-vault/internal/middleware"
	"github.com/marndt/prompt-vault/internal/queue"
	"github.com/marndt/prompt-vault/internal/repository"
	"github.com/marndt/prompt-vault/internal/router"
)

func main() {
	// Load .env when present; containerized deployments pass real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables from OS")
	}

	cfg := config.Load()

	// The *sql.DB pool is the process-wide store handle: opened once here,
	// shared by every request, closed on shutdown.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	log.Println("connected to database")

	// Redis is optional; a nil client disables caching and rate limiting
	// and the API degrades gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background consumer for prompt.activity events. Runs its own
	// reconnect loop; a missing broker only costs the activity log.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	promptRepo := repository.NewPromptRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	promptHandler := handler.NewPromptHandler(promptRepo, userRepo)
	publicHandler := &handler.PublicHandler{PromptRepo: promptRepo, UserRepo: userRepo}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPrompts(e, promptHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, rateMW, cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
