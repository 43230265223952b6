package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"finhealth/internal/core"
)

// ErrNotFound is returned when a dataset or analysis does not exist.
var ErrNotFound = errors.New("not found")

// Repository persists uploaded datasets, their normalized records, and
// analysis results in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the database at dbPath and runs
// migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveDataset stores a normalized table and returns the new dataset ID.
func (r *Repository) SaveDataset(ctx context.Context, filename, industry string, table core.Table) (string, error) {
	id := uuid.New().String()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	hasGST := 0
	if table.HasGSTData {
		hasGST = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (id, filename, industry, has_gst_data) VALUES (?, ?, ?, ?)`,
		id, filename, industry, hasGST); err != nil {
		return "", fmt.Errorf("insert dataset: %w", err)
	}

	for _, m := range table.Months {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO financial_records
			 (dataset_id, period, revenue, expense_amount, accounts_receivable,
			  accounts_payable, inventory_value, loan_emi, gst_paid, gst_due)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, m.Period.String(), m.Revenue, m.ExpenseAmount, m.AccountsReceivable,
			m.AccountsPayable, m.InventoryValue, m.LoanEMI, m.GSTPaid, m.GSTDue); err != nil {
			return "", fmt.Errorf("insert record %s: %w", m.Period, err)
		}
	}

	for _, e := range table.Entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expense_entries (dataset_id, period, description, amount) VALUES (?, ?, ?, ?)`,
			id, e.Period.String(), e.Description, e.Amount); err != nil {
			return "", fmt.Errorf("insert expense entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit dataset: %w", err)
	}
	return id, nil
}

// GetDataset reloads a stored table, months in chronological order.
func (r *Repository) GetDataset(ctx context.Context, id string) (core.Table, error) {
	var table core.Table

	var hasGST int
	err := r.db.QueryRowContext(ctx,
		`SELECT has_gst_data FROM datasets WHERE id = ?`, id).Scan(&hasGST)
	if errors.Is(err, sql.ErrNoRows) {
		return table, fmt.Errorf("dataset %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return table, fmt.Errorf("load dataset: %w", err)
	}
	table.HasGSTData = hasGST != 0

	rows, err := r.db.QueryContext(ctx,
		`SELECT period, revenue, expense_amount, accounts_receivable, accounts_payable,
		        inventory_value, loan_emi, gst_paid, gst_due
		 FROM financial_records WHERE dataset_id = ? ORDER BY period`, id)
	if err != nil {
		return table, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m core.MonthlyRecord
		var period string
		if err := rows.Scan(&period, &m.Revenue, &m.ExpenseAmount, &m.AccountsReceivable,
			&m.AccountsPayable, &m.InventoryValue, &m.LoanEMI, &m.GSTPaid, &m.GSTDue); err != nil {
			return table, fmt.Errorf("scan record: %w", err)
		}
		key, err := core.ParseMonthKey(period)
		if err != nil {
			return table, err
		}
		m.Period = key
		table.Months = append(table.Months, m)
	}
	if err := rows.Err(); err != nil {
		return table, fmt.Errorf("iterate records: %w", err)
	}

	entryRows, err := r.db.QueryContext(ctx,
		`SELECT period, description, amount FROM expense_entries WHERE dataset_id = ? ORDER BY id`, id)
	if err != nil {
		return table, fmt.Errorf("load expense entries: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var e core.ExpenseEntry
		var period string
		if err := entryRows.Scan(&period, &e.Description, &e.Amount); err != nil {
			return table, fmt.Errorf("scan expense entry: %w", err)
		}
		key, err := core.ParseMonthKey(period)
		if err != nil {
			return table, err
		}
		e.Period = key
		table.Entries = append(table.Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return table, fmt.Errorf("iterate expense entries: %w", err)
	}

	return table, nil
}

// SaveAnalysis stores an analysis result and returns its ID. datasetID may
// be empty for analyses over inline rows.
func (r *Repository) SaveAnalysis(ctx context.Context, datasetID string, analysis *core.Analysis) (string, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}

	id := uuid.New().String()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO analyses (id, dataset_id, score, status, result_json) VALUES (?, ?, ?, ?, ?)`,
		id, datasetID, analysis.Score, analysis.Status, string(payload)); err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis reloads a stored analysis by ID.
func (r *Repository) GetAnalysis(ctx context.Context, id string) (*core.Analysis, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT result_json FROM analyses WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}

	var analysis core.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis %s: %w", id, err)
	}
	return &analysis, nil
}

// SetAnalysisInsights attaches narrated insights to a stored analysis.
func (r *Repository) SetAnalysisInsights(ctx context.Context, id, insights, language string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE analyses SET insights = ?, language = ? WHERE id = ?`, insights, language, id)
	if err != nil {
		return fmt.Errorf("update insights: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetAnalysisInsights returns the stored narration and its language.
func (r *Repository) GetAnalysisInsights(ctx context.Context, id string) (insights, language string, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT insights, language FROM analyses WHERE id = ?`, id).Scan(&insights, &language)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("load insights: %w", err)
	}
	return insights, language, nil
}
