package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/configs"
	"github.com/igRoy3/SmartWasteManagement/controllers"
	"github.com/igRoy3/SmartWasteManagement/middlewares"
	"github.com/igRoy3/SmartWasteManagement/pkg/logging"
	"github.com/igRoy3/SmartWasteManagement/repository"
	"github.com/igRoy3/SmartWasteManagement/routes"
	"github.com/igRoy3/SmartWasteManagement/services"
	"github.com/igRoy3/SmartWasteManagement/storage"
	"github.com/igRoy3/SmartWasteManagement/ws"
)

func main() {
	cfg := configs.LoadConfig()
	log := logging.New(cfg.Env, cfg.LogLevel)

	configs.ConnectionDB(cfg.DBSource)
	configs.SetupDatabase()
	if err := configs.SeedAdmin(cfg); err != nil {
		log.Fatal().Err(err).Msg("seed admin failed")
	}
	db := configs.DB()

	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("storage init failed")
	}

	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	hub := ws.NewHub(log)
	go hub.Run()

	push := services.NewFCMService(context.Background(), cfg.FCMCredentialsPath, log)
	fanout := services.NewFanoutService(hub, push, userRepo, log)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	reportSvc := services.NewReportService(reportRepo, fanout)
	taskSvc := services.NewTaskService(taskRepo)
	transition := services.NewTransitionService(db, reportRepo, taskRepo, userRepo, fanout)
	analytics := services.NewAnalyticsService(db)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	routes.Register(r, cfg, routes.Controllers{
		Auth:      controllers.NewAuthController(authSvc),
		Citizen:   controllers.NewCitizenController(reportSvc, authSvc, store),
		Collector: controllers.NewCollectorController(reportSvc, taskSvc, transition, authSvc),
		Admin:     controllers.NewAdminController(reportSvc, taskSvc, transition, analytics, authSvc),
		Hub:       hub,
	})

	log.Info().Str("port", cfg.Port).Msg("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
