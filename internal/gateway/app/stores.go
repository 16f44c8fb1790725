package app

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"aivis/internal/gateway/config"
	"aivis/internal/gateway/repository/integration"
	"aivis/internal/gateway/repository/report"
	"aivis/internal/gateway/repository/toolrun"
)

type gatewayStores struct {
	runs          toolrun.Store
	reports       report.Store
	reportObjects report.ObjectStore
	integrations  integration.Store
}

func initStores(cfg *config.Config) (*gatewayStores, error) {
	objects, err := chooseReportObjectStore(cfg)
	if err != nil {
		return nil, err
	}

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return initPostgresStores(dsn, objects)
	}
	log.Printf("stores: no DATABASE_URL, using in-memory backends")
	runs, err := toolrun.NewCachedStore(toolrun.NewMemoryStore(), 1024)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		runs:          runs,
		reports:       report.NewMemoryStore(),
		reportObjects: objects,
		integrations:  integration.NewMemoryStore(),
	}, nil
}

func initPostgresStores(dsn string, objects report.ObjectStore) (*gatewayStores, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	runs, err := toolrun.NewCachedStore(toolrun.NewPostgresStore(db), 1024)
	if err != nil {
		return nil, err
	}
	return &gatewayStores{
		runs:          runs,
		reports:       report.NewPostgresStore(db),
		reportObjects: objects,
		integrations:  integration.NewPostgresStore(db),
	}, nil
}

func chooseReportObjectStore(cfg *config.Config) (report.ObjectStore, error) {
	if cfg.Reports.CanUseS3() {
		s3Store, err := report.NewS3Store(report.S3Config{
			Endpoint:  cfg.Reports.Endpoint,
			Region:    cfg.Reports.Region,
			AccessKey: cfg.Reports.AccessKey,
			SecretKey: cfg.Reports.SecretKey,
			Bucket:    cfg.Reports.Bucket,
			UseSSL:    cfg.Reports.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize report object store: %w", err)
		}
		log.Printf("report store: s3 bucket=%s endpoint=%s", cfg.Reports.Bucket, cfg.Reports.Endpoint)
		return s3Store, nil
	}
	if cfg.Reports.Enabled {
		log.Printf("report store: using in-memory fallback (s3 config incomplete)")
	}
	return report.NewMemoryObjectStore(), nil
}
