package main

import (
	"context"
	"log"
	"time"

	"github.com/arsipkampus/arsip-akademik-api/internal/repository"
	"github.com/arsipkampus/arsip-akademik-api/internal/service"
	"github.com/arsipkampus/arsip-akademik-api/pkg/config"
	"github.com/arsipkampus/arsip-akademik-api/pkg/database"
	"github.com/arsipkampus/arsip-akademik-api/pkg/logger"
)

// Seeds the permission catalog and grants every code to the configured admin
// role. Safe to run repeatedly; existing rows are left untouched.
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

	roleRepo := repository.NewRoleRepository(db)
	permissionSvc := service.NewPermissionService(roleRepo, cfg.Catalog.AdminRole, logr)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report, err := permissionSvc.Bootstrap(ctx)
	if err != nil {
		logr.Sugar().Fatalw("bootstrap failed", "error", err)
	}

	logr.Sugar().Infow("permission catalog seeded",
		"created", report.Created,
		"existing", report.Existing,
		"assigned_role", report.AssignedRole,
		"role_missing", report.RoleMissing)
}
