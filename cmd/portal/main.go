package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nurpe/wasteops-portal/internal/auth"
	"github.com/nurpe/wasteops-portal/internal/config"
	"github.com/nurpe/wasteops-portal/internal/db"
	"github.com/nurpe/wasteops-portal/internal/excel"
	httphandler "github.com/nurpe/wasteops-portal/internal/http"
	"github.com/nurpe/wasteops-portal/internal/http/middleware"
	"github.com/nurpe/wasteops-portal/internal/logger"
	"github.com/nurpe/wasteops-portal/internal/pdf"
	"github.com/nurpe/wasteops-portal/internal/repository"
	"github.com/nurpe/wasteops-portal/internal/service"
	"github.com/nurpe/wasteops-portal/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	photoStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init photo storage")
	}

	profileRepo := repository.NewProfileRepository(database)
	citizenRepo := repository.NewCitizenRepository(database)
	reportRepo := repository.NewReportRepository(database)
	collectionRepo := repository.NewCollectionRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.TokenTTL)
	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	authService := service.NewAuthService(profileRepo, citizenRepo, tokenIssuer)
	reportService := service.NewReportService(reportRepo, photoStore, cfg)
	collectionService := service.NewCollectionService(collectionRepo, statsRepo, cfg, log)
	dashboardService := service.NewDashboardService(profileRepo, reportRepo, statsRepo, collectionRepo, cfg)
	exportService := service.NewExportService(
		dashboardService, reportRepo, collectionRepo,
		excel.NewGenerator(), pdf.NewGenerator(), cfg,
	)

	poller := service.NewPoller(dashboardService, cfg.Dashboard.PollInterval, log)
	go poller.Run(ctx)

	handler := httphandler.NewHandler(
		authService, reportService, collectionService,
		dashboardService, exportService, poller, log,
	)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting waste operations portal")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
