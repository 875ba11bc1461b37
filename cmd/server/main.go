package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/config"
	"github.com/mamamaps/backend/internal/handlers"
	appMiddleware "github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/services"
)

func main() {
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Firebase Auth (server-side verification of ID tokens). The server
	// still runs without it: local JWT auth covers development setups.
	authClient, err := appMiddleware.NewFirebaseAuthClient(
		context.Background(),
		appMiddleware.FirebaseAuthConfig{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
		},
	)
	if err != nil {
		logrus.WithError(err).Warn("firebase auth client unavailable, local tokens only")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var (
		reportService  services.ReportService
		profileService services.ProfileService
		chatService    services.ChatService
	)
	if cfg.MongoURI != "" {
		reports, err := services.NewMongoReportService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logrus.WithError(err).Fatal("connect report store")
		}
		profiles, err := services.NewMongoProfileService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logrus.WithError(err).Fatal("connect profile store")
		}
		chat, err := services.NewMongoChatService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logrus.WithError(err).Fatal("connect chat store")
		}
		reportService, profileService, chatService = reports, profiles, chat
		logrus.WithField("db", cfg.MongoDB).Info("using mongodb storage")
	} else {
		reports, err := services.NewLocalReportService(cfg.DataDir)
		if err != nil {
			logrus.WithError(err).Fatal("open report store")
		}
		profiles, err := services.NewLocalProfileService(cfg.DataDir)
		if err != nil {
			logrus.WithError(err).Fatal("open profile store")
		}
		chat, err := services.NewLocalChatService(cfg.DataDir)
		if err != nil {
			logrus.WithError(err).Fatal("open chat store")
		}
		reportService, profileService, chatService = reports, profiles, chat
		logrus.WithField("dir", cfg.DataDir).Info("using local json storage")
	}

	imageService := pickImageService(ctx, cfg)
	geocodingService := services.NewGeocodingService(cfg.MapsAPIKey)
	accountService := services.NewAccountService(reportService, profileService)

	userService, err := services.NewUserService(cfg.DataDir)
	if err != nil {
		logrus.WithError(err).Fatal("open user store")
	}

	reportHandler := handlers.NewReportHandler(reportService, profileService)
	profileHandler := handlers.NewProfileHandler(profileService, reportService)
	chatHandler := handlers.NewChatHandler(chatService, profileService)
	imageHandler := handlers.NewImageHandler(imageService, cfg.MaxUploadSizeMB)
	geoHandler := handlers.NewGeoHandler(geocodingService)
	accountHandler := handlers.NewAccountHandler(accountService)
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		// Local auth fallback
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Auth(authClient, cfg.JWTSecret))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", reportHandler.ListReports)
				r.Post("/", reportHandler.CreateReport)

				r.Route("/{reportId}", func(r chi.Router) {
					r.Get("/", reportHandler.GetReport)
					r.Get("/verify", reportHandler.CheckVerify)
					r.Post("/verify", reportHandler.Verify)
				})
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.GetProfile)
				r.Put("/", profileHandler.UpsertProfile)
				r.Get("/reports", profileHandler.MyReports)
			})

			r.Get("/leaderboard", profileHandler.Leaderboard)

			r.Get("/chat", chatHandler.ListMessages)
			r.Post("/chat", chatHandler.PostMessage)

			r.Post("/upload", imageHandler.Upload)
			r.Delete("/upload/{imageId}", imageHandler.Delete)

			r.Route("/geo", func(r chi.Router) {
				r.Get("/places", geoHandler.Places)
				r.Get("/reverse", geoHandler.Reverse)
				r.Get("/route", geoHandler.Route)
			})

			r.Delete("/account", accountHandler.DeleteAccount)
		})
	})

	// Serve locally uploaded files
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	logrus.WithField("addr", cfg.ServerAddress).Info("mamamaps api server starting")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}

// pickImageService prefers Cloudinary, then Firebase Storage, then local
// disk — in descending order of what the deployment has configured.
func pickImageService(ctx context.Context, cfg *config.Config) services.ImageService {
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryPreset != "" {
		logrus.WithField("cloud", cfg.CloudinaryCloudName).Info("using cloudinary image uploads")
		return services.NewCloudinaryImageService(cfg.CloudinaryCloudName, cfg.CloudinaryPreset)
	}
	if cfg.StorageBucket != "" {
		svc, err := services.NewFirebaseStorageImageService(ctx, cfg.StorageBucket)
		if err != nil {
			logrus.WithError(err).Warn("firebase storage unavailable, falling back to local uploads")
		} else {
			logrus.WithField("bucket", cfg.StorageBucket).Info("using firebase storage image uploads")
			return svc
		}
	}
	return services.NewLocalImageService(cfg.UploadDir)
}
