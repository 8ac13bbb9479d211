package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"audit-backend/internal/audits"
	"audit-backend/internal/legalcontext"
	"audit-backend/internal/llm"
	"audit-backend/internal/llm/gemini"
	"audit-backend/internal/shared/config"
	"audit-backend/internal/shared/metrics"
	"audit-backend/internal/shared/server/middleware"
	"audit-backend/internal/shared/server/respond"
	"audit-backend/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var auditsRepo audits.Repo
	var legalRepo legalcontext.Repo
	if sqlDB != nil {
		auditsRepo = &audits.PGRepo{DB: sqlDB}
		legalRepo = &legalcontext.PGRepo{DB: sqlDB}
	} else {
		auditsRepo = audits.NewMemoryRepo()
		legalRepo = legalcontext.NewMemoryRepo()
	}

	var llmClient llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.LLMModel, time.Duration(cfg.LLMTimeoutSeconds)*time.Second)
		if err != nil {
			log.Printf("failed to initialize gemini client: %v", err)
		} else {
			llmClient = llm.NewGated(client, int64(cfg.LLMMaxConcurrent))
		}
	} else {
		log.Printf("GEMINI_API_KEY empty; audit submissions will be rejected")
	}

	auditsSvc := &audits.Service{
		Repo:    auditsRepo,
		Context: &legalcontext.Provider{Repo: legalRepo},
		LLM:     llmClient,
	}
	auditsHandler := audits.NewHandler(auditsSvc, cfg.MaxUploadBytes)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.Env))
	limiter := middleware.NewRateLimiter(time.Now)
	authed.Use(middleware.RateLimit(middleware.RateLimitRule{Rate: 0.5, Burst: 10}, limiter))
	auditsHandler.RegisterRoutes(authed)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
