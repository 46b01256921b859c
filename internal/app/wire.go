package app

import (
	"fmt"

	"skincare-report/internal/archive"
	"skincare-report/internal/config"
	"skincare-report/internal/database"
	"skincare-report/internal/ghost"
	"skincare-report/internal/metrics"
	"skincare-report/internal/report"
	"skincare-report/internal/storage"

	"go.uber.org/zap"
)

// Open builds an App from configuration: the renderer, the output
// directory, the SQLite archive and, when configured, the Ghost client.
// The returned close function releases the database.
func Open(cfg *config.Config, logger *zap.Logger) (*App, func() error, error) {
	opts := report.NewOptions()
	opts.Brand = cfg.Brand
	opts.AutoPrint = cfg.AutoPrint
	opts.PrintDelay = cfg.PrintDelay

	renderer, err := report.NewRenderer(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	reportStore, err := storage.NewReportStore(cfg.OutputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize report store: %w", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Debug("database ready", zap.String("path", cfg.DatabasePath))

	var ghostClient ghost.Client
	if err := cfg.RequireGhost(); err == nil {
		ghostClient = ghost.NewClient(cfg)
	} else {
		logger.Debug("ghost publishing disabled", zap.Error(err))
	}

	a := NewApp(
		cfg,
		renderer,
		reportStore,
		archive.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		ghostClient,
		logger,
	)
	return a, db.Close, nil
}
