package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shoply/backend/internal/config"
	"github.com/shoply/backend/internal/es"
	"github.com/shoply/backend/internal/events"
	"github.com/shoply/backend/internal/httpserver"
	loggingmw "github.com/shoply/backend/internal/middleware/logging"
	"github.com/shoply/backend/internal/logging"
	"github.com/shoply/backend/internal/repo"
	"github.com/shoply/backend/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	cartService := &service.CartService{
		Repo: &repo.GormRepo{DB: db},
	}

	cartHandler := &httpserver.CartHTTP{
		Svc: cartService,
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer([]string{cfg.KafkaAddress})
		cartHandler.Producer = producer
	} else {
		logger.Warn("KAFKA_ADDRESS not set, cart events disabled")
	}

	var searchHandler *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler = &httpserver.SearchHTTP{ES: esClient, Index: "products"}
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:   cartHandler,
		SearchHandler: searchHandler,
		JWTSecret:     cfg.JWTSecret,
	})

	port := cfg.ServerPort
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("Starting cart service on port %s...", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped")
}
