package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/linguachat/server/internal/config"
	"github.com/linguachat/server/internal/handlers"
	"github.com/linguachat/server/internal/push"
	"github.com/linguachat/server/internal/relay"
	"github.com/linguachat/server/internal/services"
	"github.com/linguachat/server/internal/store"
)

func main() {
	// Load configuration from environment
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	// Open the document store
	st, err := store.Open(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	// Push token registry, rebuilt from persisted registrations
	registry := push.NewRegistry(st, logger)
	if err := registry.Load(); err != nil {
		logger.Fatal("failed to load push registrations", zap.Error(err))
	}
	pusher := push.NewClient(cfg.ExpoPushURL, logger)

	// Relay core
	hub := relay.NewHub(logger)
	protocol := relay.NewHandler(st, registry, pusher, hub, logger)
	wsHandler := relay.NewWSHandler(hub, protocol, logger)

	// Services
	vocabService := services.NewVocabService(st)
	quizService := services.NewQuizService(st, time.Now().UnixNano())
	uploadService, err := services.NewUploadService(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to init uploads", zap.Error(err))
	}

	// Start background store compaction
	compaction := services.NewCompactionService(st, 10*time.Minute, logger)
	go compaction.Start()

	// Handlers
	messageHandler := handlers.NewMessageHandler(st, logger)
	vocabHandler := handlers.NewVocabHandler(vocabService, logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger)
	pushHandler := handlers.NewPushHandler(registry, logger)
	uploadHandler := handlers.NewUploadHandler(uploadService, logger)
	healthHandler := handlers.NewHealthHandler(st, hub)

	// Set up router with middleware
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	logger.Info("CORS allowed origins", zap.Strings("origins", cfg.CorsOrigins))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", healthHandler.Check)

	// Relay websocket endpoint
	r.Get("/ws", wsHandler.ServeWS)

	// Uploaded file serving
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadService.Dir()))))

	// API routes, behind the per-IP rate ceiling
	limiter := handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", messageHandler.List)
			r.Get("/{id}", messageHandler.Get)
			r.Get("/pending/{userId}", messageHandler.Pending)
			r.Delete("/{id}", messageHandler.Delete)
		})

		r.Route("/vocab/{collection}", func(r chi.Router) {
			r.Get("/", vocabHandler.List)
			r.Post("/", vocabHandler.Create)
			r.Get("/{id}", vocabHandler.Get)
			r.Put("/{id}", vocabHandler.Update)
			r.Delete("/{id}", vocabHandler.Delete)
		})

		r.Get("/quiz/{collection}", quizHandler.Generate)
		r.Post("/push/register", pushHandler.Register)
		r.Post("/upload", uploadHandler.Upload)
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.Info("server starting", zap.String("addr", addr))

	server := &http.Server{
		Handler:     r,
		Addr:        addr,
		ReadTimeout: 10 * time.Second,
	}
	logger.Fatal("server stopped", zap.Error(server.ListenAndServe()))
}

// newLogger builds a development or production zap logger per APP_ENV.
func newLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
