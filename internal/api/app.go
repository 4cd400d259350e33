package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/npezzotti/roomchat/internal/config"
	"github.com/npezzotti/roomchat/internal/server"
)

type App struct {
	log            *log.Logger
	mux            *http.Server
	hub            *server.Hub
	dispatcher     server.Dispatcher
	allowedOrigins []string
}

func NewApp(mux *http.ServeMux, logger *log.Logger, hub *server.Hub, d server.Dispatcher, cfg *config.Config) *App {
	s := &App{
		log:            logger,
		hub:            hub,
		dispatcher:     d,
		allowedOrigins: cfg.AllowedOrigins,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("GET /ws", s.serveWs)
	if cfg.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
	)(mux)

	h = s.errorHandler(h)
	if logger != nil {
		h = handlers.CombinedLoggingHandler(logger.Writer(), h)
	}

	s.mux = &http.Server{
		Addr:     cfg.ServerAddr,
		Handler:  h,
		ErrorLog: logger,
	}

	return s
}

func (s *App) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *App) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
