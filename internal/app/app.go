package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skincare-report/internal/archive"
	"skincare-report/internal/config"
	"skincare-report/internal/ghost"
	"skincare-report/internal/metrics"
	"skincare-report/internal/report"
	"skincare-report/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrGhostNotConfigured is returned by Publish when no Ghost client is set.
var ErrGhostNotConfigured = errors.New("ghost publishing is not configured")

// postTag marks every published report on the blog.
const postTag = "skincare-report"

// App holds the application's dependencies.
type App struct {
	renderer     *report.Renderer
	reportStore  *storage.ReportStore
	archive      *archive.Repository
	metricsStore *metrics.Store
	ghostClient  ghost.Client
	cfg          *config.Config
	logger       *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewApp creates and initializes a new App instance. ghostClient may be nil
// when publishing is not configured.
func NewApp(
	cfg *config.Config,
	renderer *report.Renderer,
	reportStore *storage.ReportStore,
	repo *archive.Repository,
	metricsStore *metrics.Store,
	ghostClient ghost.Client,
	logger *zap.Logger,
) *App {
	return &App{
		renderer:     renderer,
		reportStore:  reportStore,
		archive:      repo,
		metricsStore: metricsStore,
		ghostClient:  ghostClient,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// GenerateInput is one report request.
type GenerateInput struct {
	Request report.Request
	// Layout falls back to the configured layout when empty.
	Layout    report.Layout
	Recipient string
}

// Result is a generated and archived report.
type Result struct {
	Record archive.Record
	HTML   []byte
}

// Generate validates and renders a report, writes it to the output
// directory, archives it and records a render metric.
func (a *App) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	layout := in.Layout
	if layout == "" {
		parsed, err := report.ParseLayout(a.cfg.Layout)
		if err != nil {
			return nil, fmt.Errorf("invalid configured layout: %w", err)
		}
		layout = parsed
	}

	if err := in.Request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report request: %w", err)
	}

	start := time.Now()
	html, err := a.renderer.RenderBytes(in.Request, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	latency := time.Since(start)

	id := a.newID()
	generatedAt := a.now().UTC()

	path, err := a.reportStore.Save(id, generatedAt, html)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	rec := archive.Record{
		ID:           id,
		Recipient:    in.Recipient,
		Title:        report.Title(in.Request),
		Layout:       layout.String(),
		FilePath:     path,
		ProductCount: in.Request.ProductCount(),
		GeneratedAt:  generatedAt.Truncate(time.Millisecond),
	}
	if err := a.archive.Save(ctx, rec); err != nil {
		if rmErr := a.reportStore.Remove(id); rmErr != nil {
			a.logger.Warn("failed to remove unarchived report", zap.String("id", id), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}

	if err := a.metricsStore.Record(ctx, metrics.RenderMetric{
		Layout:    rec.Layout,
		Products:  rec.ProductCount,
		LatencyMS: latency.Milliseconds(),
		Timestamp: generatedAt,
	}); err != nil {
		a.logger.Warn("failed to record render metric", zap.String("id", id), zap.Error(err))
	}

	a.logger.Info("report generated",
		zap.String("id", id),
		zap.String("layout", rec.Layout),
		zap.String("recipient", rec.Recipient),
		zap.Int("products", rec.ProductCount),
		zap.Duration("latency", latency),
		zap.String("path", path),
	)

	return &Result{Record: rec, HTML: html}, nil
}

// Publish posts an archived report to Ghost, as a draft unless publish is
// set, and stores the resulting post URL.
func (a *App) Publish(ctx context.Context, id string, publish bool) (*archive.Record, error) {
	if a.ghostClient == nil {
		return nil, ErrGhostNotConfigured
	}

	rec, err := a.archive.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	html, err := a.reportStore.Load(rec.ID, rec.GeneratedAt)
	if err != nil {
		return nil, err
	}

	body, err := ghost.PostBody(html)
	if err != nil {
		return nil, err
	}

	post, err := a.ghostClient.CreatePost(ctx, rec.Title, body, []string{postTag, rec.Layout}, publish)
	if err != nil {
		return nil, fmt.Errorf("failed to publish report %s: %w", id, err)
	}

	if err := a.archive.MarkPublished(ctx, rec.ID, post.URL); err != nil {
		return nil, err
	}
	rec.PublishedURL = post.URL

	a.logger.Info("report published",
		zap.String("id", rec.ID),
		zap.String("post_id", post.ID),
		zap.String("status", post.Status),
		zap.String("url", post.URL),
	)
	return rec, nil
}

// Latest returns the most recent report for a recipient together with its
// HTML. It returns archive.ErrNotFound when the recipient has none.
func (a *App) Latest(ctx context.Context, recipient string) (*Result, error) {
	records, err := a.archive.ListRecentByRecipient(ctx, recipient, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no reports for %q", archive.ErrNotFound, recipient)
	}

	rec := records[0]
	html, err := a.reportStore.Load(rec.ID, rec.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return &Result{Record: rec, HTML: html}, nil
}

// History lists archived reports, newest first.
func (a *App) History(ctx context.Context, recipient string, limit int) ([]archive.Record, error) {
	return a.archive.ListRecentByRecipient(ctx, recipient, limit)
}

// Usage reports render activity for the last days together with a health
// snapshot of the process and output directory.
func (a *App) Usage(ctx context.Context, days int) ([]metrics.DailyUsage, metrics.SysHealth, error) {
	usage, err := a.metricsStore.GetDailyUsage(ctx, days)
	if err != nil {
		return nil, metrics.SysHealth{}, err
	}
	return usage, metrics.GetSysHealth(a.cfg.OutputDir), nil
}

// CleanupMetrics removes render metrics older than days.
func (a *App) CleanupMetrics(ctx context.Context, days int) (int64, error) {
	removed, err := a.metricsStore.Cleanup(ctx, days)
	if err != nil {
		return 0, err
	}
	a.logger.Info("render metrics cleaned up", zap.Int("days", days), zap.Int64("removed", removed))
	return removed, nil
}
