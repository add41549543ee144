package entities

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RequestStatusDraft      = "draft"
	RequestStatusSubmitted  = "submitted"
	RequestStatusInProgress = "in-progress"
	RequestStatusCompleted  = "completed"
	RequestStatusDelivered  = "delivered"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type DesignRequest struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Category    string          `db:"category"`
	Style       string          `db:"style"`
	Priority    string          `db:"priority"`
	Status      string          `db:"status"`
	Price       decimal.Decimal `db:"price"`
	UserID      string          `db:"user_id"`
	DesignerID  sql.NullString  `db:"designer_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
