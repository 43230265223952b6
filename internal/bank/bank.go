// Package bank provides the bank-transaction source port and its sandbox
// implementation. A production deployment would back the port with a real
// banking aggregator API; the analysis core only ever sees the transaction
// slice.
package bank

import (
	"context"
	"time"

	"finhealth/internal/core"
)

// TransactionSource fetches transactions for a business bank account.
type TransactionSource interface {
	FetchTransactions(ctx context.Context, accountID string) ([]core.BankTransaction, error)
}

// MockAPI is a sandbox-style transaction source returning canned data for
// any account ID.
type MockAPI struct {
	// Now lets tests pin the clock. Defaults to time.Now.
	Now func() time.Time
}

var _ TransactionSource = (*MockAPI)(nil)

// FetchTransactions returns a fixed set of current-month transactions.
func (m *MockAPI) FetchTransactions(ctx context.Context, accountID string) ([]core.BankTransaction, error) {
	now := time.Now()
	if m.Now != nil {
		now = m.Now()
	}
	return []core.BankTransaction{
		{Date: now, Amount: 150000, Type: core.TransactionCredit, Description: "Customer payment"},
		{Date: now, Amount: 45000, Type: core.TransactionDebit, Description: "Office rent"},
		{Date: now, Amount: 18000, Type: core.TransactionDebit, Description: "Electricity bill"},
	}, nil
}
