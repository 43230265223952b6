// Package sheets provides a Google Sheets row source, for businesses that
// keep their monthly figures in a spreadsheet instead of uploading files.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finhealth/internal/core"
	"finhealth/internal/ingest"
)

// RowSource yields raw rows for normalization.
type RowSource interface {
	FetchRows(ctx context.Context) ([]core.RawRow, error)
}

// GoogleClient reads a spreadsheet range as a financial statement.
type GoogleClient struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

var _ RowSource = (*GoogleClient)(nil)

// NewGoogleClient builds a Sheets client. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or application
// default credentials, in that order.
func NewGoogleClient(ctx context.Context, spreadsheetID, readRange string) (*GoogleClient, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(readRange) == "" {
		readRange = "Sheet1!A:Z"
	}

	var opts []goption.ClientOption
	if credsJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); credsJSON != "" {
		opts = append(opts, goption.WithCredentialsJSON([]byte(credsJSON)))
	} else if credsFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")); credsFile != "" {
		opts = append(opts, goption.WithCredentialsFile(credsFile))
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &GoogleClient{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

// FetchRows reads the configured range. The first row is the header.
func (c *GoogleClient) FetchRows(ctx context.Context) ([]core.RawRow, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %q: %w", c.readRange, err)
	}

	records := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, strings.TrimSpace(fmt.Sprint(cell)))
		}
		records = append(records, cells)
	}

	rows, err := ingest.RowsFromTable(records)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet %s: %w", c.spreadsheetID, err)
	}
	return rows, nil
}
