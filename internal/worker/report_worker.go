package worker

import (
	"context"
	"fmt"

	"finhealth/internal/amqp"
	"finhealth/internal/core"
	"finhealth/internal/insights"
	"finhealth/internal/log"
)

// AnalysisStore is the slice of the repository the worker needs.
type AnalysisStore interface {
	GetAnalysis(ctx context.Context, id string) (*core.Analysis, error)
	SetAnalysisInsights(ctx context.Context, id, insights, language string) error
}

// ReportWorker consumes report requests: it loads the stored analysis,
// narrates it, translates the narration, and writes it back onto the
// analysis row.
type ReportWorker struct {
	storage  AnalysisStore
	narrator insights.Narrator
	logger   *log.Logger
}

func NewReportWorker(storage AnalysisStore, narrator insights.Narrator, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		storage:  storage,
		narrator: narrator,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleReportRequest processes a single report request message.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	w.logger.InfoContext(ctx, "Processing report request",
		log.FieldAnalysisID, msg.AnalysisID,
		log.FieldLanguage, msg.Language)

	analysis, err := w.storage.GetAnalysis(ctx, msg.AnalysisID)
	if err != nil {
		return fmt.Errorf("load analysis: %w", err)
	}

	// Narration never fails hard: the client substitutes a static
	// advisory on any upstream error, and translation falls back to the
	// untranslated text.
	text := w.narrator.GenerateInsights(ctx, analysis)
	text = w.narrator.Translate(ctx, text, msg.Language)

	if err := w.storage.SetAnalysisInsights(ctx, msg.AnalysisID, text, msg.Language); err != nil {
		return fmt.Errorf("store insights: %w", err)
	}

	w.logger.InfoContext(ctx, "Report narration stored",
		log.FieldAnalysisID, msg.AnalysisID,
		log.FieldLanguage, msg.Language)
	return nil
}
