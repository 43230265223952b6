package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"finhealth/internal/amqp"
	"finhealth/internal/bank"
	"finhealth/internal/cli"
	"finhealth/internal/core"
	apphttp "finhealth/internal/http"
	"finhealth/internal/insights"
	"finhealth/internal/log"
	"finhealth/internal/services"
	"finhealth/internal/sheets"
	"finhealth/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitStorage(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Businesses that keep their books in a spreadsheet get it imported
	// as a dataset at startup.
	if cfg.SheetsSpreadsheetID != "" {
		importSpreadsheet(logger, repo, cfg.SheetsSpreadsheetID, cfg.SheetsRange)
	}

	narrator := insights.NewClient(insights.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: cfg.InsightTimeout,
	}, logger)

	// The broker is optional: without it the report endpoint narrates
	// inline instead of queueing.
	var publisher apphttp.ReportPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, reports will be generated inline", log.FieldError, err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	analysisService := services.NewAnalysisService(repo, &bank.MockAPI{}, logger)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:             ":" + cfg.Port,
		Analysis:         analysisService,
		Storage:          repo,
		Narrator:         narrator,
		Publisher:        publisher,
		Logger:           logger,
		InsightCacheSize: cfg.InsightCacheSize,
		InsightCacheTTL:  cfg.InsightCacheTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting finhealth server",
		"port", cfg.Port,
		log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}

// importSpreadsheet pulls the configured range from Google Sheets and
// stores it as a dataset. Failures are logged, never fatal.
func importSpreadsheet(logger *log.Logger, repo *storage.Repository, spreadsheetID, readRange string) {
	ctx := context.Background()

	source, err := sheets.NewGoogleClient(ctx, spreadsheetID, readRange)
	if err != nil {
		logger.Warn("Google Sheets client unavailable", log.FieldError, err)
		return
	}
	rows, err := source.FetchRows(ctx)
	if err != nil {
		logger.Warn("Spreadsheet fetch failed", log.FieldError, err)
		return
	}
	table, warnings, err := core.Normalize(rows)
	if err != nil {
		logger.Warn("Spreadsheet rows unusable", log.FieldError, err)
		return
	}
	id, err := repo.SaveDataset(ctx, "sheet:"+spreadsheetID, "", table)
	if err != nil {
		logger.Warn("Failed to store spreadsheet dataset", log.FieldError, err)
		return
	}
	logger.Info("Spreadsheet imported",
		log.FieldDatasetID, id,
		log.FieldMonths, len(table.Months),
		log.FieldWarnings, len(warnings))
}
