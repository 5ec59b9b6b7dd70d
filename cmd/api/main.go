package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/BruksfildServices01/walkin-queue/internal/bus"
	"github.com/BruksfildServices01/walkin-queue/internal/config"
	dbpkg "github.com/BruksfildServices01/walkin-queue/internal/db"
	infraRepo "github.com/BruksfildServices01/walkin-queue/internal/infra/repository"
	"github.com/BruksfildServices01/walkin-queue/internal/live"
	"github.com/BruksfildServices01/walkin-queue/internal/middleware"
	"github.com/BruksfildServices01/walkin-queue/internal/routes"
	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	dbpkg.EnsureOwner(db, cfg.OwnerEmail, cfg.OwnerPassword)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := bus.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	changes := bus.NewRedisBus(rdb)

	hub := live.NewHub()
	feed := live.NewFeed(infraRepo.NewQueueGormRepository(db), hub, changes)
	go feed.Run(ctx)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Cfg:     cfg,
		Changes: changes,
		Hub:     hub,
		Feed:    feed,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
