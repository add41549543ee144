package entities

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

const (
	PaymentMethodPayPal       = "paypal"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodManual       = "manual"
)

type PaymentRecord struct {
	ID                    string          `db:"id"`
	InvoiceID             string          `db:"invoice_id"`
	Amount                decimal.Decimal `db:"amount"`
	Method                string          `db:"method"`
	ExternalTransactionID sql.NullString  `db:"external_transaction_id"`
	Status                string          `db:"status"`
	ProcessedAt           time.Time       `db:"processed_at"`
}
