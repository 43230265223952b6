package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"finhealth/internal/bank"
	"finhealth/internal/core"
	"finhealth/internal/log"
	"finhealth/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func testRepository(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func healthyRows() []core.RawRow {
	rows := make([]core.RawRow, 0, 3)
	for _, date := range []string{"2024-01-15", "2024-02-15", "2024-03-15"} {
		rows = append(rows, core.RawRow{
			"date":       date,
			"revenue":    100.0,
			"expense":    40.0,
			"receivable": 50.0,
			"payable":    50.0,
			"gst_due":    0.0,
		})
	}
	return rows
}

func TestAnalyzeHealthyBusiness(t *testing.T) {
	svc := NewAnalysisService(testRepository(t), nil, testLogger())

	id, analysis, err := svc.Analyze(context.Background(), healthyRows(), "", AnalyzeOptions{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if id == "" {
		t.Error("expected a stored analysis ID")
	}
	if analysis.Score != 95 {
		t.Errorf("score = %d, want 95", analysis.Score)
	}
	if analysis.Status != core.StatusHealthy {
		t.Errorf("status = %q, want %q", analysis.Status, core.StatusHealthy)
	}
	if len(analysis.Risks) != 0 {
		t.Errorf("risks = %v, want none", analysis.Risks)
	}
	if len(analysis.Forecast.Revenue) != 6 {
		t.Errorf("forecast length = %d, want 6", len(analysis.Forecast.Revenue))
	}
	if analysis.GST == nil || analysis.GST.Status != core.GSTCompliant {
		t.Errorf("gst = %+v, want compliant", analysis.GST)
	}
	if len(analysis.Benchmarks) != 4 {
		t.Errorf("benchmarks = %d metrics, want 4", len(analysis.Benchmarks))
	}
}

func TestAnalyzeUnknownIndustry(t *testing.T) {
	svc := NewAnalysisService(testRepository(t), nil, testLogger())

	_, _, err := svc.Analyze(context.Background(), healthyRows(), "", AnalyzeOptions{Industry: "Atlantis"})
	if !errors.Is(err, core.ErrUnknownIndustry) {
		t.Fatalf("got %v, want ErrUnknownIndustry", err)
	}
}

func TestAnalyzeNoData(t *testing.T) {
	svc := NewAnalysisService(testRepository(t), nil, testLogger())

	_, _, err := svc.Analyze(context.Background(), nil, "", AnalyzeOptions{})
	if !errors.Is(err, core.ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}
}

func TestAnalyzeGSTOverride(t *testing.T) {
	svc := NewAnalysisService(testRepository(t), nil, testLogger())

	_, analysis, err := svc.Analyze(context.Background(), healthyRows(), "", AnalyzeOptions{
		GSTOverride: &GSTInput{Paid: 1000, Due: 1500},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.GST.Status != core.GSTAtRisk {
		t.Errorf("gst status = %q, want %q", analysis.GST.Status, core.GSTAtRisk)
	}
	if len(analysis.GST.Risks) != 1 {
		t.Fatalf("gst risks = %d, want 1", len(analysis.GST.Risks))
	}
	// GST section risks stay inside the section; the top-level list only
	// carries the risk detector's findings.
	if len(analysis.Risks) != 0 {
		t.Errorf("top-level risks = %v, want none", analysis.Risks)
	}
}

func TestAnalyzeWithBankEnrichment(t *testing.T) {
	svc := NewAnalysisService(testRepository(t), &bank.MockAPI{}, testLogger())

	_, analysis, err := svc.Analyze(context.Background(), healthyRows(), "", AnalyzeOptions{
		BankAccountID: "acct-1",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.BankSummary.TransactionCount != 3 {
		t.Errorf("transaction count = %d, want 3", analysis.BankSummary.TransactionCount)
	}
	if analysis.BankSummary.Inflows != 150000 {
		t.Errorf("inflows = %v, want 150000", analysis.BankSummary.Inflows)
	}
	if analysis.BankSummary.Outflows != 63000 {
		t.Errorf("outflows = %v, want 63000", analysis.BankSummary.Outflows)
	}
}

type failingBank struct{}

func (failingBank) FetchTransactions(context.Context, string) ([]core.BankTransaction, error) {
	return nil, errors.New("sandbox down")
}

func TestAnalyzeBankFailureDegrades(t *testing.T) {
	svc := NewAnalysisService(testRepository(t), failingBank{}, testLogger())

	_, analysis, err := svc.Analyze(context.Background(), healthyRows(), "", AnalyzeOptions{
		BankAccountID: "acct-1",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	found := false
	for _, w := range analysis.Warnings {
		if w == "Bank data unavailable" {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want bank unavailability noted", analysis.Warnings)
	}
	if analysis.Score == 0 {
		t.Error("analysis should still carry a score")
	}
}

func TestAnalyzeDatasetRoundTrip(t *testing.T) {
	repo := testRepository(t)
	svc := NewAnalysisService(repo, nil, testLogger())
	ctx := context.Background()

	table, _, err := core.Normalize(healthyRows())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	datasetID, err := repo.SaveDataset(ctx, "books.csv", "Retail", table)
	if err != nil {
		t.Fatalf("SaveDataset: %v", err)
	}

	id, analysis, err := svc.AnalyzeDataset(ctx, datasetID, AnalyzeOptions{})
	if err != nil {
		t.Fatalf("AnalyzeDataset: %v", err)
	}
	if analysis.Score != 95 {
		t.Errorf("score = %d, want 95", analysis.Score)
	}

	stored, err := repo.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("GetAnalysis: %v", err)
	}
	if stored.Score != analysis.Score || stored.Status != analysis.Status {
		t.Errorf("stored analysis differs: %+v vs %+v", stored, analysis)
	}
}
