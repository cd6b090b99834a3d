package main

import (
	"context"
	"fmt"
	"io"

	"github.com/okian/medbench/internal/adapters/fetch"
	"github.com/okian/medbench/internal/adapters/render"
	"github.com/okian/medbench/internal/adapters/repository"
	service "github.com/okian/medbench/internal/app"
	"github.com/okian/medbench/internal/config"
	"github.com/okian/medbench/pkg/logger"
)

// components holds everything a command needs, built from one Config.
type components struct {
	svc    *service.Service
	html   *render.HTMLRenderer
	png    *render.PNGRenderer
	logger logger.Logger
}

// setupLogging initializes the global logger from configuration. An invalid
// level falls back to info.
func setupLogging(ctx context.Context, w io.Writer, cfg *config.Config) (logger.Logger, error) {
	if err := logger.InitWith(w, cfg.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return log, nil
}

// build wires loaders, renderers and the service from configuration.
func build(cfg *config.Config, log logger.Logger) (*components, error) {
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	themes, err := render.Themes(cfg.Themes)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.New(cfg.MASTMetricsURL, cfg.Path(cfg.MASTCacheFile),
		fetch.WithTimeout(cfg.FetchTimeout()),
		fetch.WithMaxBytes(cfg.FetchMaxBytes),
		fetch.WithPreferCache(cfg.PreferCache),
		fetch.WithLogger(log.Named("fetch")),
	)
	mast := repository.NewMASTLoader(fetcher, cfg.Path(cfg.ReleaseDatesFile),
		repository.WithFilter(repository.Filter{
			Team:      cfg.MASTTeam,
			Condition: cfg.MASTCondition,
			Metric:    cfg.MASTMetric,
		}),
		repository.WithMASTLogger(log.Named("mast")),
	)
	csv := repository.NewCSVLoader(cfg.DataDir, table, repository.WithCSVLogger(log.Named("csv")))

	html := render.NewHTMLRenderer(render.WithTable(table))
	png := render.NewPNGRenderer(render.WithSize(cfg.PNGWidth, cfg.PNGHeight))
	exporter := render.NewExporter(
		render.WithRenderers(html, png),
		render.WithThemes(themes...),
		render.WithLogger(log.Named("render")),
	)

	svc := service.New(
		service.WithTable(table),
		service.WithLoader(repository.NewDefaultRegistry(table, csv, mast)),
		service.WithDataDir(cfg.DataDir),
		service.WithExporter(exporter),
		service.WithOutput(cfg.OutputDir, cfg.OutputBase),
		service.WithLogger(log),
	)
	return &components{svc: svc, html: html, png: png, logger: log}, nil
}
