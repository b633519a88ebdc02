package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"col-heatmap/config"
	"col-heatmap/metrics"
	"col-heatmap/models"
	"col-heatmap/render"
	"col-heatmap/scraper/numbeo"
	"col-heatmap/services"
	"col-heatmap/storage"
	"col-heatmap/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	utils.InitSentry(cfg.SentryDSN, cfg.SentryEnvironment, logger)
	defer utils.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("=== Cost of Living Heatmap starting ===")
	logger.Info("Config: cities: %d | years: %d from %d | mode: %s | timeout: %dms | cooldown: %dms",
		len(cfg.TargetCities), cfg.LookbackYears, cfg.Year(), cfg.FetchMode, cfg.RequestTimeoutMs, cfg.CooldownMs)

	var transport numbeo.Transport
	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		browser := numbeo.NewBrowserTransport(cfg.ChromeBin, cfg.UserAgent, cfg.RequestTimeout(), logger)
		defer browser.Close()
		transport = browser
	case config.FetchModeHTTP:
		transport = numbeo.NewHTTPTransport(cfg.RequestTimeout(), cfg.UserAgent)
	default:
		logger.Error("Unknown FETCH_MODE %q (want %q or %q)", cfg.FetchMode, config.FetchModeHTTP, config.FetchModeBrowser)
		os.Exit(1)
	}

	fetcher := numbeo.NewFetcher(cfg.BaseURL, transport, utils.NewCooldown(cfg.CooldownMs), logger)
	collector := services.NewCollector(fetcher, numbeo.NewParser(), logger)

	targets := utils.NewCitySet(cfg.TargetCities...)
	years := services.YearWindow(cfg.Year(), cfg.LookbackYears)

	cov, err := collector.Collect(ctx, targets, years)
	if err != nil {
		logger.Error("Collection stopped: %v", err)
		if cov == nil {
			os.Exit(1)
		}
	}

	summary := services.NewSummaryService(logger)
	summary.Print(summary.Generate(cov))

	rows := storage.BuildRows(cov, config.CityCoordinates)
	export(logger, rows, cfg)

	heatmap := render.NewHeatmap(config.CityCoordinates, logger)
	if err := heatmap.Render(cov, cfg.HeatmapPath); err != nil {
		if errors.Is(err, render.ErrNoData) {
			logger.Warn("No data to display on the map.")
		} else {
			logger.Error("Heatmap render failed: %v", err)
		}
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("Metrics textfile write failed: %v", err)
		}
	}

	fmt.Printf("  Done. %s | CSV → %s | XLSX → %s | Map → %s\n\n",
		status(cov), cfg.CSVOutputPath, cfg.XLSXOutputPath, cfg.HeatmapPath)
}

func export(logger *utils.Logger, rows []storage.ExportRow, cfg *config.Config) {
	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		writeAndClose(logger, "CSV", csvWriter, rows)
	}

	xlsxWriter, err := storage.NewXLSXWriter(cfg.XLSXOutputPath)
	if err != nil {
		logger.Error("Failed to create XLSX writer: %v", err)
	} else {
		writeAndClose(logger, "XLSX", xlsxWriter, rows)
	}
}

func writeAndClose(logger *utils.Logger, name string, w storage.CoverageWriter, rows []storage.ExportRow) {
	if err := w.Write(rows); err != nil {
		logger.Error("%s write failed: %v", name, err)
	}
	if err := w.Close(); err != nil {
		logger.Error("%s close failed: %v", name, err)
		return
	}
	logger.Info("[storage] %d cities exported to %s", len(rows), name)
}

func status(cov *models.Coverage) string {
	if cov.Complete {
		return fmt.Sprintf("all %d cities resolved", len(cov.Targets))
	}
	return fmt.Sprintf("%d/%d cities resolved", len(cov.Values), len(cov.Targets))
}
