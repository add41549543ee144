package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// newTestStorage returns a PostgresStorage backed by a sql mock along with
// the mocking context and a cleanup function. Invocation of the cleanup
// function should be deferred by the caller.
func newTestStorage(t *testing.T) (*PostgresStorage, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	cleanup := func() {
		defer db.Close()
	}

	s := &PostgresStorage{db: sqlx.NewDb(db, "sqlmock")}

	return s, mock, cleanup
}

func TestAddUserXP(t *testing.T) {
	s, mock, cleanup := newTestStorage(t)
	defer cleanup()

	// Test the unexpected error path
	unexpectedErr := errors.New("unexpected error")
	mock.ExpectQuery("UPDATE users SET xp = xp").
		WithArgs(10, entities.XPPerLevel, "user-1").
		WillReturnError(unexpectedErr)

	_, err := s.AddUserXP(context.Background(), "user-1", 10)
	if !errors.Is(err, unexpectedErr) {
		t.Errorf("got err '%v', want '%v'", err, unexpectedErr)
	}

	// Test the success path
	mock.ExpectQuery("UPDATE users SET xp = xp").
		WithArgs(10, entities.XPPerLevel, "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"xp"}).AddRow(120))

	newXP, err := s.AddUserXP(context.Background(), "user-1", 10)
	if err != nil {
		t.Error(err)
	}
	if newXP != 120 {
		t.Errorf("got xp %v, want 120", newXP)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateRequest(t *testing.T) {
	s, mock, cleanup := newTestStorage(t)
	defer cleanup()

	request := entities.DesignRequest{
		Title:       "Acme Logo",
		Description: "A bold logo",
		Category:    "design",
		Style:       "modern",
		Priority:    entities.PriorityHigh,
		Status:      entities.RequestStatusSubmitted,
		Price:       decimal.NewFromInt(225),
		UserID:      "user-1",
	}

	mock.ExpectQuery("INSERT INTO design_requests").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("request-1"))

	requestID, err := s.CreateRequest(context.Background(), request)
	if err != nil {
		t.Error(err)
	}
	if requestID != "request-1" {
		t.Errorf("got id %v, want request-1", requestID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateUserConflict(t *testing.T) {
	s, mock, cleanup := newTestStorage(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := s.CreateUser(context.Background(), "a@b.c", "A", "hash")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("got err '%v', want '%v'", err, ErrConflict)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetUserByCredentialsNoRows(t *testing.T) {
	s, mock, cleanup := newTestStorage(t)
	defer cleanup()

	mock.ExpectQuery("SELECT id FROM users").
		WithArgs("a@b.c", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetUserByCredentials(context.Background(), "a@b.c", "hash")
	if !errors.Is(err, ErrNoRows) {
		t.Errorf("got err '%v', want '%v'", err, ErrNoRows)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// MarkInvoicePaid must write the payment record and the invoice transition
// in a single transaction.
func TestMarkInvoicePaid(t *testing.T) {
	s, mock, cleanup := newTestStorage(t)
	defer cleanup()

	invoice := entities.Invoice{
		ID:     "invoice-1",
		Number: "INV-1",
		UserID: "user-1",
		Status: entities.InvoiceStatusSent,
	}
	payment := entities.PaymentRecord{
		Amount: decimal.NewFromInt(110),
		Method: entities.PaymentMethodPayPal,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO invoice_payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE invoices SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := s.MarkInvoicePaid(context.Background(), invoice, payment); err != nil {
		t.Error(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// A failed invoice update must roll the payment insert back.
func TestMarkInvoicePaidRollback(t *testing.T) {
	s, mock, cleanup := newTestStorage(t)
	defer cleanup()

	unexpectedErr := errors.New("unexpected error")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO invoice_payments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE invoices SET status").
		WillReturnError(unexpectedErr)
	mock.ExpectRollback()

	err := s.MarkInvoicePaid(context.Background(), entities.Invoice{ID: "invoice-1"}, entities.PaymentRecord{})
	if !errors.Is(err, unexpectedErr) {
		t.Errorf("got err '%v', want '%v'", err, unexpectedErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
