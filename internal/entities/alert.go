package entities

import (
	"time"
)

const (
	AlertTypeInfo    = "info"
	AlertTypeSuccess = "success"
	AlertTypeWarning = "warning"
	AlertTypeError   = "error"
)

const (
	AlertSourceSystem  = "system"
	AlertSourcePayment = "payment"
	AlertSourceProject = "project"
)

type SystemAlert struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Type      string    `db:"type"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Source    string    `db:"source"`
	CreatedAt time.Time `db:"created_at"`
}
