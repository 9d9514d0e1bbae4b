package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/arsipkampus/arsip-akademik-api/api/swagger"
	"github.com/arsipkampus/arsip-akademik-api/internal/handler"
	"github.com/arsipkampus/arsip-akademik-api/internal/repository"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	"github.com/arsipkampus/arsip-akademik-api/pkg/cache"
	"github.com/arsipkampus/arsip-akademik-api/pkg/config"
	"github.com/arsipkampus/arsip-akademik-api/pkg/database"
	"github.com/arsipkampus/arsip-akademik-api/pkg/logger"
	"github.com/arsipkampus/arsip-akademik-api/pkg/storage"
)

// @title Arsip Akademik API
// @version 1.0.0
// @description Academic records backend: accounts, thesis proposals, supervision assignments
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	localStorage, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	divisionRepo := repository.NewDivisionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	lecturerRepo := repository.NewLecturerRepository(db)
	programRepo := repository.NewProgramRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	supervisionRepo := repository.NewSupervisionRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	accessSvc := service.NewAccessService(logr)
	authSvc := service.NewAuthService(userRepo, studentRepo, divisionRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "arsip-akademik-api",
	})
	permissionSvc := service.NewPermissionService(roleRepo, cfg.Catalog.AdminRole, logr)
	roleSvc := service.NewRoleService(roleRepo, validate, logr)
	userSvc := service.NewUserService(userRepo, roleRepo, validate, logr)
	divisionSvc := service.NewDivisionService(divisionRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, proposalRepo, roleRepo, cfg.Catalog.StudentRole, validate, logr)
	lecturerSvc := service.NewLecturerService(lecturerRepo, validate, logr)
	programSvc := service.NewProgramService(programRepo, validate, logr)
	regionSvc := service.NewRegionService(regionRepo, cacheRepo, metricsSvc, cfg.Regions.CacheTTL, validate, logr)
	referenceSvc := service.NewReferenceService(referenceRepo, validate, logr)
	proposalSvc := service.NewProposalService(proposalRepo, lecturerRepo, userRepo, accessSvc, localStorage, signer, validate, logr)
	supervisionSvc := service.NewSupervisionService(supervisionRepo, lecturerRepo, studentRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(statsRepo, cacheRepo, metricsSvc, time.Minute, logr)
	importSvc := service.NewImportService(studentRepo, lecturerRepo, programRepo, cfg.Imports.MaxRowErrors, validate, logr)
	exportSvc := service.NewExportService(supervisionRepo, studentRepo, logr)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		User:        handler.NewUserHandler(userSvc),
		Role:        handler.NewRoleHandler(roleSvc, permissionSvc),
		Division:    handler.NewDivisionHandler(divisionSvc),
		Student:     handler.NewStudentHandler(studentSvc),
		Lecturer:    handler.NewLecturerHandler(lecturerSvc),
		Program:     handler.NewProgramHandler(programSvc),
		Region:      handler.NewRegionHandler(regionSvc),
		Reference:   handler.NewReferenceHandler(referenceSvc),
		Proposal:    handler.NewProposalHandler(proposalSvc),
		Supervision: handler.NewSupervisionHandler(supervisionSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc),
		Transfer:    handler.NewTransferHandler(importSvc, exportSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc),
	}

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Auth:     authSvc,
		Access:   accessSvc,
		Metrics:  metricsSvc,
		UserRepo: userRepo,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
