package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/hamadsh/billsplit/docs"
	"github.com/hamadsh/billsplit/internal/bill"
	"github.com/hamadsh/billsplit/internal/config"
	"github.com/hamadsh/billsplit/internal/database"
	"github.com/hamadsh/billsplit/internal/split"
	"github.com/hamadsh/billsplit/internal/team"
	"github.com/hamadsh/billsplit/internal/user"
	"github.com/hamadsh/billsplit/pkg/logging"
	mw "github.com/hamadsh/billsplit/pkg/middleware"
)

// @title        billsplit API
// @version      1.0
// @description  Bill splitting for teams: receipts, splits, payments, and settlement tracking.
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	// Split strategy factory, shared by the bill feature
	splitFactory := split.NewFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Team feature
	teamRepo := team.NewRepository(db)
	teamService := team.NewService(teamRepo)
	teamHandler := team.NewHandler(teamService)

	// Bill feature (with split factory injected)
	billRepo := bill.NewRepository(db)
	billService := bill.NewService(billRepo, splitFactory)
	billHandler := bill.NewHandler(billService)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes behind identity resolution
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Identity)

		r.Mount("/users", userHandler.Routes())
		r.Mount("/teams", teamHandler.Routes())
		r.Mount("/bills", billHandler.Routes())
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
