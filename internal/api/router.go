package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rohits-web03/smartstore/docs"
	"github.com/rohits-web03/smartstore/internal/api/handlers"
	"github.com/rohits-web03/smartstore/internal/api/middleware"
	"github.com/rohits-web03/smartstore/internal/config"
	"github.com/rohits-web03/smartstore/internal/services"
)

func SetupRouter(cfg *config.Config, files *services.FileService) http.Handler {
	mux := http.NewServeMux()
	c := cors.New(cfg.CorsConfig)

	// ---------- OPS ----------
	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /docs/", httpSwagger.WrapHandler)

	// ---------- FILES ----------
	fh := handlers.NewFileHandler(files, cfg.MaxUploadBytes, cfg.DownloadURLTTL)
	mux.HandleFunc("POST /api/v1/files/upload", fh.UploadFile)
	mux.HandleFunc("GET /api/v1/files", fh.ListFiles)
	mux.HandleFunc("GET /api/v1/files/{id}", fh.GetFile)
	mux.HandleFunc("GET /api/v1/files/{id}/download", fh.DownloadFile)

	slog.Info("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Metrics(handler)
	handler = middleware.Logger(handler)
	return handler
}
