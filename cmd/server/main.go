package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"github.com/ErenKizilay/parroton/internal/config"
	"github.com/ErenKizilay/parroton/internal/httpclient"
	"github.com/ErenKizilay/parroton/internal/logger"
	"github.com/ErenKizilay/parroton/internal/router"
	"github.com/ErenKizilay/parroton/internal/store"
	"github.com/ErenKizilay/parroton/internal/svc"
)

func main() {
	configPath := flag.String("config", "config/config.yml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading configuration failed: %v", err)
	}

	logger.Init(&cfg.Log)
	defer logger.Sync()

	db, err := store.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("opening database failed: %v", err)
	}
	repo := store.New(db)
	defer repo.Close()

	client := httpclient.New(&cfg.Client)
	svc.Init(cfg, repo, client)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Server.BodyLimit,
	})
	router.Setup(app)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Printf("server listening on http://%s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown failed: %v", err)
	}
}
