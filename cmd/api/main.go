package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/brewandco/brew-counter/internal/config"
	"github.com/brewandco/brew-counter/internal/handler"
	"github.com/brewandco/brew-counter/internal/repository/sheets"
	aiservice "github.com/brewandco/brew-counter/internal/service/ai"
	convservice "github.com/brewandco/brew-counter/internal/service/conversation"
	ordersservice "github.com/brewandco/brew-counter/internal/service/orders"
	speechservice "github.com/brewandco/brew-counter/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize the order store and lifecycle manager
	var repo ordersservice.Repository
	if cfg.Store.Enabled {
		repo = sheets.NewClient(cfg.Store.WebhookURL, time.Duration(cfg.Store.Timeout)*time.Second)
		log.Println("Order sheet store initialized successfully")
	} else {
		log.Println("ORDER_SHEET_URL not configured, orders stay in memory only")
	}
	ordersService := ordersservice.NewService(repo)

	// Initialize the AI barista engine
	var aiService *aiservice.Service
	if cfg.AI.Enabled() {
		aiService, err = aiservice.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without the conversational barista")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, skipping AI initialization")
	}

	// Initialize the speech service
	var speechService *speechservice.Service
	if cfg.Speech.Enabled {
		speechService = speechservice.NewService(cfg.Speech)
		log.Println("Speech service initialized successfully")
	} else {
		log.Println("ElevenLabs credentials not configured, skipping speech initialization")
	}

	var engine convservice.Engine
	if aiService != nil {
		engine = aiService
	}
	conversationService := convservice.NewService(engine, ordersService)

	router := handler.NewRouter(conversationService, ordersService, speechService)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Brew & Co counter listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
