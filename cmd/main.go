package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buku-saku-server/config"
	"buku-saku-server/internal/ai"
	"buku-saku-server/internal/handler"
	"buku-saku-server/internal/model"
	"buku-saku-server/internal/notifier"
	"buku-saku-server/internal/repository"
	"buku-saku-server/internal/security"
	"buku-saku-server/internal/service"
	"buku-saku-server/internal/textextract"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Buku Saku QAQC
// @version 1.0
// @description REST API manajemen dokumen dengan alur persetujuan, pencarian hybrid, dan notifikasi

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Gagal memuat konfigurasi: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Gagal terhubung ke database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Gagal menutup database: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Gagal terhubung ke Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Gagal menutup Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	signedURLTTL := time.Duration(cfg.TTL.SignedURL) * time.Second
	cacheTTL := time.Duration(cfg.TTL.Cache) * time.Second

	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, cacheTTL)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Gagal membuat S3 service: %v", err)
	}

	embedder := ai.NewSharedEmbedder(&cfg.Embedding)
	embedder.Acquire()
	defer embedder.Release()

	extractor := textextract.New()
	mailer := notifier.NewHTTPMailer(&cfg.Mail)
	fanout := service.NewNotificationFanoutService(notifRepo, userRepo)

	jwtService := security.NewJWTService(&cfg.JWT)
	docService := service.NewDocumentService(docRepo, historyRepo, userRepo, cacheRepo,
		s3Service, extractor, embedder, fanout, cfg.Upload.MaxFileSize, signedURLTTL)
	searchService := service.NewSearchService(docRepo, cacheRepo, s3Service, embedder, signedURLTTL)
	userService := service.NewUserService(userRepo, notifRepo, docRepo, historyRepo, fanout,
		mailer, jwtService, cfg.JWT.EnforceName, cfg.Admin.SuperAdminEmail)
	categoryService := service.NewCategoryService(categoryRepo, docRepo, cfg.Categories.ProtectReferenced)
	favoriteService := service.NewFavoriteService(favoriteRepo, docRepo)
	notifService := service.NewNotificationService(notifRepo)

	authHandler := handler.NewAuthHandler(userService, notifService)
	docHandler := handler.NewDocumentHandler(docService, searchService, favoriteService, cfg.Upload.MaxFileSize)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	notifHandler := handler.NewNotificationHandler(notifService)

	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, userRepo, jwtService, cfg)
	setupDocumentRoutes(router, docHandler, userRepo, jwtService, cfg)
	setupCategoryRoutes(router, categoryHandler, userRepo, jwtService, cfg)
	setupNotificationRoutes(router, notifHandler, userRepo, jwtService, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthHandler, userRepo *repository.UserRepository, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login/user", h.LoginUser)
		r.Post("/login/admin", h.LoginAdmin)

		r.Route("/admin", func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), userRepo, jwtService))
			r.Use(security.RequireRole(model.RoleAdmin))

			r.Post("/users", h.UpsertUser)
			r.Get("/users", h.ListUsers)
			r.Post("/users/reject", h.RejectRegistration)
			r.Delete("/users/{id}", h.DeleteUser)
			r.Post("/reset-password", h.ResetPassword)
			r.Get("/summary", h.Summary)
			r.Delete("/cleanup-test-logs", h.CleanupTestLogs)
		})
	})
}

func setupDocumentRoutes(r chi.Router, h *handler.DocumentHandler, userRepo *repository.UserRepository, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/documents", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), userRepo, jwtService))

		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/approved", h.ListApproved)
		r.Get("/history", h.History)
		r.Get("/favorites", h.ListFavorites)
		r.Get("/favorites/ids", h.ListFavoriteIDs)

		r.Group(func(r chi.Router) {
			r.Use(security.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleUploader))
			r.Post("/upload", h.Upload)
		})

		r.Group(func(r chi.Router) {
			r.Use(security.RequireRole(model.RoleAdmin, model.RoleManager))
			r.Put("/{id}/status", h.SetStatus)
			r.Delete("/{id}", h.SoftDelete)
		})

		r.Route("/{id}/favorite", func(r chi.Router) {
			r.Get("/", h.GetFavorite)
			r.Post("/", h.AddFavorite)
			r.Delete("/", h.RemoveFavorite)
		})
	})
}

func setupCategoryRoutes(r chi.Router, h *handler.CategoryHandler, userRepo *repository.UserRepository, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/categories", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), userRepo, jwtService))

		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(security.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleUploader))
			r.Post("/", h.Create)
			r.Delete("/{name}", h.Delete)
		})
	})
}

func setupNotificationRoutes(r chi.Router, h *handler.NotificationHandler, userRepo *repository.UserRepository, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), userRepo, jwtService))

		r.Get("/", h.List)
		r.Patch("/{id}/read", h.MarkRead)
		r.Put("/{id}/read", h.MarkRead)
		r.Put("/read-all", h.MarkAllRead)
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("server berjalan di " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("server berhenti dengan error: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("menerima sinyal %v, menghentikan server", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("gagal menghentikan server: %v", err)
	} else {
		log.Println("Server berhasil dihentikan")
	}
}
