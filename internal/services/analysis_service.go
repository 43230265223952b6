package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"finhealth/internal/bank"
	"finhealth/internal/core"
	"finhealth/internal/log"
	"finhealth/internal/storage"
)

// DefaultIndustry is used when the caller supplies no industry.
const DefaultIndustry = "Retail"

// GSTInput overrides the table-derived GST figures for one analysis.
type GSTInput struct {
	Paid float64 `json:"gst_paid"`
	Due  float64 `json:"gst_due"`
}

// AnalyzeOptions tunes a single analysis request.
type AnalyzeOptions struct {
	// Industry selects the benchmark table; empty means DefaultIndustry.
	Industry string
	// GSTOverride, when set, replaces the table's summed GST columns.
	GSTOverride *GSTInput
	// BankAccountID, when set, pulls transactions from the bank source
	// and enriches the table before analysis.
	BankAccountID string
}

// AnalysisService orchestrates one analysis: normalize, enrich, fan out the
// analytic functions, assemble the result, and persist it.
type AnalysisService struct {
	storage *storage.Repository
	bank    bank.TransactionSource
	logger  *log.Logger
}

func NewAnalysisService(repo *storage.Repository, source bank.TransactionSource, logger *log.Logger) *AnalysisService {
	return &AnalysisService{
		storage: repo,
		bank:    source,
		logger:  logger.WithComponent(log.ComponentAnalysis),
	}
}

func resolveIndustry(industry string) (string, error) {
	if industry == "" {
		industry = DefaultIndustry
	}
	if !core.KnownIndustry(industry) {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownIndustry, industry)
	}
	return industry, nil
}

// Analyze runs the full pipeline over raw rows and returns the stored
// analysis ID alongside the result. datasetID may be empty for inline rows;
// it is recorded on the analysis row when present.
func (s *AnalysisService) Analyze(ctx context.Context, rows []core.RawRow, datasetID string, opts AnalyzeOptions) (string, *core.Analysis, error) {
	industry, err := resolveIndustry(opts.Industry)
	if err != nil {
		return "", nil, err
	}

	table, warnings, err := core.Normalize(rows)
	if err != nil {
		return "", nil, err
	}

	analysis := s.AnalyzeTable(ctx, table, industry, opts, warnings)
	id, err := s.persist(ctx, datasetID, analysis)
	if err != nil {
		return "", nil, err
	}
	return id, analysis, nil
}

// AnalyzeDataset reloads a stored dataset and analyzes it.
func (s *AnalysisService) AnalyzeDataset(ctx context.Context, datasetID string, opts AnalyzeOptions) (string, *core.Analysis, error) {
	industry, err := resolveIndustry(opts.Industry)
	if err != nil {
		return "", nil, err
	}

	table, err := s.storage.GetDataset(ctx, datasetID)
	if err != nil {
		return "", nil, err
	}
	if len(table.Months) == 0 {
		return "", nil, core.ErrNoData
	}

	analysis := s.AnalyzeTable(ctx, table, industry, opts, nil)
	id, err := s.persist(ctx, datasetID, analysis)
	if err != nil {
		return "", nil, err
	}
	return id, analysis, nil
}

// AnalyzeTable runs the analytic fan-out over an already normalized table.
// Industry must already be validated. The functions all read the same
// immutable table, so they run concurrently; a panic in one degrades that
// section to its zero value with a warning instead of aborting the rest.
func (s *AnalysisService) AnalyzeTable(ctx context.Context, table core.Table, industry string, opts AnalyzeOptions, warnings []string) *core.Analysis {
	var bankSummary core.BankSummary
	if opts.BankAccountID != "" && s.bank != nil {
		txns, err := s.bank.FetchTransactions(ctx, opts.BankAccountID)
		if err != nil {
			s.logger.WarnContext(ctx, "Bank fetch failed, analyzing without enrichment",
				log.FieldError, err)
			warnings = append(warnings, "Bank data unavailable")
		} else {
			table = core.EnrichWithBankData(table, txns)
			bankSummary = core.SummarizeBank(txns)
		}
	}

	var (
		score      core.HealthScore
		risks      []core.Risk
		benchmarks map[string]core.BenchmarkComparison
		forecast   core.Forecast
		capital    core.WorkingCapital
		books      core.Bookkeeping
		gst        core.GSTReport
	)

	var g errgroup.Group
	run := func(name string, fn func() error) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					s.logger.ErrorContext(ctx, "Analysis section panicked",
						log.FieldSection, name, "panic", r)
					err = fmt.Errorf("%s: %v", name, r)
				}
			}()
			return fn()
		})
	}

	run("health_score", func() error {
		score = core.CalculateHealthScore(table)
		return nil
	})
	run("risks", func() error {
		risks = core.IdentifyRisks(table)
		return nil
	})
	run("benchmarks", func() error {
		var err error
		benchmarks, err = core.CompareWithBenchmark(table, industry)
		return err
	})
	run("forecast", func() error {
		forecast = core.GenerateForecast(table)
		return nil
	})
	run("working_capital", func() error {
		capital = core.ComputeWorkingCapital(table)
		return nil
	})
	run("bookkeeping", func() error {
		books = core.AutomatedBookkeeping(table)
		return nil
	})
	run("gst", func() error {
		if opts.GSTOverride != nil {
			gst = core.AnalyzeGST(opts.GSTOverride.Paid, opts.GSTOverride.Due)
		} else {
			gst = core.AnalyzeGSTFromTable(table)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		// The failed section stays at its zero value; the rest of the
		// analysis still ships, with a warning naming the failure.
		warnings = append(warnings, fmt.Sprintf("Analysis section failed: %v", err))
	}

	if risks == nil {
		risks = []core.Risk{}
	}
	if warnings == nil {
		warnings = []string{}
	}

	return &core.Analysis{
		Score:          score.TotalScore,
		Status:         core.HealthStatus(score.TotalScore),
		Breakdown:      score.Breakdown,
		Risks:          risks,
		Benchmarks:     benchmarks,
		Forecast:       forecast,
		WorkingCapital: capital,
		Bookkeeping:    books,
		GST:            &gst,
		BankSummary:    bankSummary,
		Warnings:       warnings,
	}
}

func (s *AnalysisService) persist(ctx context.Context, datasetID string, analysis *core.Analysis) (string, error) {
	if s.storage == nil {
		return "", nil
	}
	id, err := s.storage.SaveAnalysis(ctx, datasetID, analysis)
	if err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}
	s.logger.InfoContext(ctx, "Analysis stored",
		log.FieldAnalysisID, id,
		log.FieldScore, analysis.Score)
	return id, nil
}
