package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/comiclib/comiclib-api/internal/config"
	"github.com/comiclib/comiclib-api/internal/domain/assistant"
	"github.com/comiclib/comiclib-api/internal/domain/booksearch"
	"github.com/comiclib/comiclib-api/internal/domain/character"
	"github.com/comiclib/comiclib-api/internal/domain/comic"
	"github.com/comiclib/comiclib-api/internal/domain/photo"
	"github.com/comiclib/comiclib-api/internal/middleware"
	"github.com/comiclib/comiclib-api/internal/pkg/database"
	"github.com/comiclib/comiclib-api/internal/pkg/gemini"
	"github.com/comiclib/comiclib-api/internal/pkg/imaging"
	"github.com/comiclib/comiclib-api/internal/pkg/logger"
	"github.com/comiclib/comiclib-api/internal/pkg/naver"
	pkgresponse "github.com/comiclib/comiclib-api/internal/pkg/response"
	"github.com/comiclib/comiclib-api/internal/pkg/storage"
)

const serviceName = "comiclib-api"

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Msg("Starting comiclib API")

	ctx := context.Background()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	store, publicBaseURL, err := newObjectStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object store")
	}

	geminiClient, err := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		ImageModel: cfg.GeminiImageModel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	if !geminiClient.Configured() {
		log.Warn().Msg("GEMINI_API_KEY not set, assistant endpoints will fail")
	}

	naverClient := naver.NewClient(cfg.NaverBaseURL, cfg.NaverClientID, cfg.NaverClientSecret, 10*time.Second)
	if !naverClient.Configured() {
		log.Warn().Msg("Naver credentials not set, book search will fail")
	}

	// ---------- Repositories ----------
	photoRepo := photo.NewRepository(db)
	characterRepo := character.NewRepository(db)
	comicRepo := comic.NewRepository(db)

	// ---------- Services ----------
	paths := photo.NewPathResolver(cfg.PhotoPrefix, publicBaseURL)
	photoService := photo.NewService(photoRepo, store, imaging.NewProcessor(imaging.DefaultConfig()), paths, cfg.SignedURLTTL)
	characterService := character.NewService(characterRepo, photoService)
	comicService := comic.NewService(comicRepo, characterService, store, cfg.CoverPrefix)
	assistantService := assistant.NewService(geminiClient, assistant.NewRedisNewsCache(redis), cfg.NewsCacheTTL)

	// ---------- Handlers ----------
	handlers := routeHandlers{
		photo:      photo.NewHandler(photoService),
		character:  character.NewHandler(characterService),
		comic:      comic.NewHandler(comicService),
		assistant:  assistant.NewHandler(assistantService),
		booksearch: booksearch.NewHandler(naverClient),
	}

	r := newRouter(cfg, handlers)
	if !cfg.UseS3() {
		mountLocalFiles(r, cfg.LocalStoragePath)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // image generation is slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// newObjectStore picks the backend once; every component shares it. The
// returned base URL is the one the store itself prefixes public URLs with.
func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, string, error) {
	if cfg.UseS3() {
		s3Store, err := storage.NewS3Storage(ctx, storage.Config{
			Endpoint:           cfg.S3Endpoint,
			Region:             cfg.S3Region,
			Bucket:             cfg.S3Bucket,
			AccessKey:          cfg.S3AccessKey,
			SecretKey:          cfg.S3SecretKey,
			CredentialsFile:    cfg.S3CredentialsFile,
			CredentialsProfile: cfg.S3CredentialsProfile,
			UsePathStyle:       cfg.S3UsePathStyle,
			PublicBaseURL:      cfg.StoragePublicBaseURL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3Store, s3Store.PublicBaseURL(), nil
	}

	local, err := storage.NewLocalStorage(cfg.LocalStoragePath, cfg.LocalStorageURL)
	if err != nil {
		return nil, "", err
	}
	return local, local.PublicBaseURL(), nil
}

type routeHandlers struct {
	photo      *photo.Handler
	character  *character.Handler
	comic      *comic.Handler
	assistant  *assistant.Handler
	booksearch *booksearch.Handler
}

func newRouter(cfg *config.Config, h routeHandlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	health := func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "healthy",
			"service": serviceName,
		})
	}
	r.Get("/", health)
	r.Get("/health", health)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/photos", h.photo.Routes())

		r.Route("/comics", func(r chi.Router) {
			r.Mount("/character", h.character.Routes())
			r.Get("/user-characters", h.character.ListUserCharacters)
			r.Get("/news-list", h.character.NewsList)
			h.comic.Register(r)
		})

		h.assistant.Register(r)
		r.Mount("/naver", h.booksearch.Routes())
	})

	return r
}

func mountLocalFiles(r chi.Router, basePath string) {
	fs := http.StripPrefix("/static/uploads/", http.FileServer(http.Dir(basePath)))
	r.Get("/static/uploads/*", fs.ServeHTTP)
}
