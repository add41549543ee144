package entities

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"

	// InvoiceStatusOverdue is a display status computed at read time for
	// sent invoices with an elapsed due date. It is never stored.
	InvoiceStatusOverdue = "overdue"
)

const (
	LineItemTypeService      = "service"
	LineItemTypeProduct      = "product"
	LineItemTypeDesign       = "design"
	LineItemTypeConsultation = "consultation"
)

type Invoice struct {
	ID                    string          `db:"id"`
	Number                string          `db:"invoice_number"`
	RequestID             sql.NullString  `db:"request_id"`
	UserID                string          `db:"user_id"`
	DesignerID            sql.NullString  `db:"designer_id"`
	Title                 string          `db:"title"`
	Description           sql.NullString  `db:"description"`
	Subtotal              decimal.Decimal `db:"subtotal"`
	TaxRate               decimal.Decimal `db:"tax_rate"`
	TaxAmount             decimal.Decimal `db:"tax_amount"`
	DiscountAmount        decimal.Decimal `db:"discount_amount"`
	TotalAmount           decimal.Decimal `db:"total_amount"`
	Status                string          `db:"status"`
	DueDate               sql.NullTime    `db:"due_date"`
	SentAt                sql.NullTime    `db:"sent_at"`
	PaidAt                sql.NullTime    `db:"paid_at"`
	PaymentMethod         sql.NullString  `db:"payment_method"`
	ExternalOrderID       sql.NullString  `db:"external_order_id"`
	ExternalTransactionID sql.NullString  `db:"external_transaction_id"`
	Notes                 sql.NullString  `db:"notes"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

// DisplayStatus returns the status as shown to users: a sent invoice with
// an elapsed due date reads as overdue without a stored transition.
func (i Invoice) DisplayStatus(now time.Time) string {
	if i.Status == InvoiceStatusSent && i.DueDate.Valid && i.DueDate.Time.Before(now) {
		return InvoiceStatusOverdue
	}

	return i.Status
}

type InvoiceLineItem struct {
	ID          string          `db:"id"`
	InvoiceID   string          `db:"invoice_id"`
	Description string          `db:"description"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	TotalPrice  decimal.Decimal `db:"total_price"`
	ItemType    string          `db:"item_type"`
	CreatedAt   time.Time       `db:"created_at"`
}
