package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npezzotti/roomchat/internal/api"
	"github.com/npezzotti/roomchat/internal/config"
	"github.com/npezzotti/roomchat/internal/messages"
	"github.com/npezzotti/roomchat/internal/server"
	"github.com/npezzotti/roomchat/internal/stats"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	staticDir      string
	botName        string
	welcome        string
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:3001", "server address")
	flag.StringVar(&staticDir, "static-dir", "public", "directory of static assets, empty to disable")
	flag.StringVar(&botName, "bot-name", messages.BotName, "sender name of system messages")
	flag.StringVar(&welcome, "welcome", config.DefaultWelcomeMessage, "message sent to users joining a room")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS and websockets")
	flag.Parse()

	logger := log.New(os.Stderr, "[roomchat] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, staticDir, botName, welcome, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	hub := server.NewHub(logger, statsUpdater)
	engine := server.NewEngine(logger, cfg, hub, messages.NewFormatter(time.Now), statsUpdater)

	srv := api.NewApp(mux, logger, hub, engine, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	go engine.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down chat engine...")
	if err := engine.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("engine shutdown:", err)
	}

	if err := hub.Shutdown(shutDownCtx); err != nil {
		logger.Println("closing connections:", err)
	}
	logger.Println("shutdown complete")
}
