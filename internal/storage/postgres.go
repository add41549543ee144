package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/designdesk/designdesk/internal/entities"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrConflict = errors.New("conflict")
	ErrNoRows   = errors.New("no rows")
)

type Storage interface {
	GetUserByCredentials(context.Context, string, string) (string, error)
	GetUserByID(context.Context, string) (entities.User, error)
	CreateUser(context.Context, string, string, string) (string, error)
	AddUserXP(context.Context, string, int) (int, error)

	CreateRequest(context.Context, entities.DesignRequest) (string, error)
	GetRequestByID(context.Context, string) (entities.DesignRequest, error)
	GetUserRequests(context.Context, string) ([]entities.DesignRequest, error)

	CreateAttachment(context.Context, entities.Attachment) (string, error)
	GetRequestAttachments(context.Context, string) ([]entities.Attachment, error)

	CreateInvoice(context.Context, entities.Invoice, []entities.InvoiceLineItem) (string, error)
	GetInvoiceByID(context.Context, string) (entities.Invoice, error)
	GetUserInvoices(context.Context, string) ([]entities.Invoice, error)
	GetInvoiceLineItems(context.Context, string) ([]entities.InvoiceLineItem, error)
	GetInvoicePayments(context.Context, string) ([]entities.PaymentRecord, error)
	MarkInvoiceSent(context.Context, string) error
	MarkInvoiceCancelled(context.Context, string) error
	MarkInvoicePaid(context.Context, entities.Invoice, entities.PaymentRecord) error
	DeleteInvoice(context.Context, string) error
	AddInvoiceLineItem(context.Context, entities.Invoice, entities.InvoiceLineItem) (string, error)
	RemoveInvoiceLineItem(context.Context, entities.Invoice, string) error

	CreateAlert(context.Context, entities.SystemAlert) error
}

type PostgresStorage struct {
	db *sqlx.DB
}

func NewPostgresStorage(db *sqlx.DB) (Storage, error) {
	storage := &PostgresStorage{db: db}

	err := storage.runMigrations(context.Background())
	if err != nil {
		return nil, err
	}

	return storage, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, email string, name string, passwordHash string) (string, error) {
	var userID string

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO users (email, name, password)
		VALUES ($1, $2, $3) RETURNING id;`,
		email, name, passwordHash,
	)

	if err := row.Err(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	if err := row.Scan(&userID); err != nil {
		return "", err
	}

	return userID, nil
}

func (s *PostgresStorage) GetUserByCredentials(ctx context.Context, email string, passwordHash string) (string, error) {
	var userID string

	row := s.db.QueryRowxContext(ctx, "SELECT id FROM users WHERE email = $1 AND password = $2;", email, passwordHash)

	if err := row.Err(); err != nil {
		return "", err
	}

	err := row.Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoRows
		}

		return "", err
	}

	return userID, nil
}

func (s *PostgresStorage) GetUserByID(ctx context.Context, userID string) (entities.User, error) {
	var user entities.User

	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1;", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, ErrNoRows
		}

		return user, err
	}

	return user, nil
}

// AddUserXP increments XP atomically on the database side so that
// concurrent grants to the same user never lose updates. The level is
// recomputed in the same statement.
func (s *PostgresStorage) AddUserXP(ctx context.Context, userID string, points int) (int, error) {
	var newXP int

	row := s.db.QueryRowxContext(
		ctx,
		`UPDATE users SET xp = xp + $1, level = (xp + $1) / $2 + 1 WHERE id = $3 RETURNING xp;`,
		points, entities.XPPerLevel, userID,
	)

	if err := row.Err(); err != nil {
		return 0, err
	}

	if err := row.Scan(&newXP); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNoRows
		}

		return 0, err
	}

	return newXP, nil
}

func (s *PostgresStorage) CreateRequest(ctx context.Context, request entities.DesignRequest) (string, error) {
	var requestID string

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO design_requests (title, description, category, style, priority, status, price, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		request.Title, request.Description, request.Category, request.Style,
		request.Priority, request.Status, request.Price, request.UserID,
	)

	if err := row.Err(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	if err := row.Scan(&requestID); err != nil {
		return "", err
	}

	return requestID, nil
}

func (s *PostgresStorage) GetRequestByID(ctx context.Context, requestID string) (entities.DesignRequest, error) {
	var request entities.DesignRequest

	err := s.db.GetContext(ctx, &request, "SELECT * FROM design_requests WHERE id = $1;", requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return request, ErrNoRows
		}

		return request, err
	}

	return request, nil
}

func (s *PostgresStorage) GetUserRequests(ctx context.Context, userID string) ([]entities.DesignRequest, error) {
	var requests []entities.DesignRequest

	err := s.db.SelectContext(ctx, &requests, "SELECT * FROM design_requests WHERE user_id = $1 ORDER BY created_at DESC;", userID)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (s *PostgresStorage) CreateAttachment(ctx context.Context, attachment entities.Attachment) (string, error) {
	var attachmentID string

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO files (request_id, name, url, size, mime_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		attachment.RequestID, attachment.Name, attachment.URL,
		attachment.Size, attachment.MimeType, attachment.UploadedBy,
	)

	if err := row.Err(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	if err := row.Scan(&attachmentID); err != nil {
		return "", err
	}

	return attachmentID, nil
}

func (s *PostgresStorage) GetRequestAttachments(ctx context.Context, requestID string) ([]entities.Attachment, error) {
	var attachments []entities.Attachment

	err := s.db.SelectContext(ctx, &attachments, "SELECT * FROM files WHERE request_id = $1;", requestID)
	if err != nil {
		return nil, err
	}

	return attachments, nil
}

func (s *PostgresStorage) CreateInvoice(ctx context.Context, invoice entities.Invoice, items []entities.InvoiceLineItem) (string, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	var invoiceID string

	row := tx.QueryRowxContext(
		ctx,
		`INSERT INTO invoices (invoice_number, request_id, user_id, designer_id, title, description,
			subtotal, tax_rate, tax_amount, discount_amount, total_amount, status, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id;`,
		invoice.Number, invoice.RequestID, invoice.UserID, invoice.DesignerID,
		invoice.Title, invoice.Description, invoice.Subtotal, invoice.TaxRate,
		invoice.TaxAmount, invoice.DiscountAmount, invoice.TotalAmount,
		invoice.Status, invoice.DueDate, invoice.Notes,
	)

	if err := row.Err(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	if err := row.Scan(&invoiceID); err != nil {
		return "", err
	}

	for _, item := range items {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO invoice_line_items (invoice_id, description, quantity, unit_price, total_price, item_type)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			invoiceID, item.Description, item.Quantity, item.UnitPrice, item.TotalPrice, item.ItemType,
		); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return invoiceID, nil
}

func (s *PostgresStorage) GetInvoiceByID(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	var invoice entities.Invoice

	err := s.db.GetContext(ctx, &invoice, "SELECT * FROM invoices WHERE id = $1;", invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice, ErrNoRows
		}

		return invoice, err
	}

	return invoice, nil
}

func (s *PostgresStorage) GetUserInvoices(ctx context.Context, userID string) ([]entities.Invoice, error) {
	var invoices []entities.Invoice

	err := s.db.SelectContext(ctx, &invoices, "SELECT * FROM invoices WHERE user_id = $1 ORDER BY created_at DESC;", userID)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

func (s *PostgresStorage) GetInvoiceLineItems(ctx context.Context, invoiceID string) ([]entities.InvoiceLineItem, error) {
	var items []entities.InvoiceLineItem

	err := s.db.SelectContext(ctx, &items, "SELECT * FROM invoice_line_items WHERE invoice_id = $1 ORDER BY created_at ASC;", invoiceID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *PostgresStorage) GetInvoicePayments(ctx context.Context, invoiceID string) ([]entities.PaymentRecord, error) {
	var payments []entities.PaymentRecord

	err := s.db.SelectContext(ctx, &payments, "SELECT * FROM invoice_payments WHERE invoice_id = $1 ORDER BY processed_at ASC;", invoiceID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (s *PostgresStorage) MarkInvoiceSent(ctx context.Context, invoiceID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE invoices SET status = $1, sent_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = $2;`,
		entities.InvoiceStatusSent, invoiceID,
	)

	return err
}

func (s *PostgresStorage) MarkInvoiceCancelled(ctx context.Context, invoiceID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE invoices SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2;`,
		entities.InvoiceStatusCancelled, invoiceID,
	)

	return err
}

// MarkInvoicePaid records the completed payment and transitions the invoice
// in one transaction, so an invoice can never read paid without a matching
// completed payment row.
func (s *PostgresStorage) MarkInvoicePaid(ctx context.Context, invoice entities.Invoice, payment entities.PaymentRecord) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO invoice_payments (invoice_id, amount, method, external_transaction_id, status)
		VALUES ($1, $2, $3, $4, $5);`,
		invoice.ID, payment.Amount, payment.Method, payment.ExternalTransactionID, entities.PaymentStatusCompleted,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE invoices SET status = $1, paid_at = CURRENT_TIMESTAMP, payment_method = $2,
			external_order_id = $3, external_transaction_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5;`,
		entities.InvoiceStatusPaid, payment.Method, invoice.ExternalOrderID, payment.ExternalTransactionID, invoice.ID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStorage) DeleteInvoice(ctx context.Context, invoiceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1;`, invoiceID)

	return err
}

func (s *PostgresStorage) AddInvoiceLineItem(ctx context.Context, invoice entities.Invoice, item entities.InvoiceLineItem) (string, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return "", err
	}

	defer tx.Rollback()

	var itemID string

	row := tx.QueryRowxContext(
		ctx,
		`INSERT INTO invoice_line_items (invoice_id, description, quantity, unit_price, total_price, item_type)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		invoice.ID, item.Description, item.Quantity, item.UnitPrice, item.TotalPrice, item.ItemType,
	)

	if err := row.Err(); err != nil {
		return "", err
	}

	if err := row.Scan(&itemID); err != nil {
		return "", err
	}

	if err := s.updateInvoiceTotals(ctx, tx, invoice); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	return itemID, nil
}

func (s *PostgresStorage) RemoveInvoiceLineItem(ctx context.Context, invoice entities.Invoice, itemID string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM invoice_line_items WHERE id = $1 AND invoice_id = $2;`, itemID, invoice.ID)
	if err != nil {
		return err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if deleted == 0 {
		return ErrNoRows
	}

	if err := s.updateInvoiceTotals(ctx, tx, invoice); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStorage) updateInvoiceTotals(ctx context.Context, tx *sqlx.Tx, invoice entities.Invoice) error {
	_, err := tx.ExecContext(
		ctx,
		`UPDATE invoices SET subtotal = $1, tax_amount = $2, total_amount = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4;`,
		invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount, invoice.ID,
	)

	return err
}

func (s *PostgresStorage) CreateAlert(ctx context.Context, alert entities.SystemAlert) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO system_alerts (user_id, type, title, message, source)
		VALUES ($1, $2, $3, $4, $5);`,
		alert.UserID, alert.Type, alert.Title, alert.Message, alert.Source,
	)

	return err
}

func (s *PostgresStorage) runMigrations(ctx context.Context) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}

	defer tx.Rollback()

	migrations := []string{
		`
		CREATE TABLE IF NOT EXISTS users(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password TEXT NOT NULL,
			role VARCHAR NOT NULL DEFAULT 'user',
			xp INT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS design_requests(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR NOT NULL,
			style VARCHAR NOT NULL,
			priority VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			price NUMERIC(10, 2) NOT NULL DEFAULT 0,
			user_id uuid NOT NULL,
			designer_id uuid,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS files(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			request_id uuid NOT NULL,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			size BIGINT NOT NULL,
			mime_type VARCHAR NOT NULL,
			uploaded_by uuid NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_request FOREIGN KEY(request_id) REFERENCES design_requests(id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS invoices(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			invoice_number VARCHAR NOT NULL UNIQUE,
			request_id uuid,
			user_id uuid NOT NULL,
			designer_id uuid,
			title TEXT NOT NULL,
			description TEXT,
			subtotal NUMERIC(10, 2) NOT NULL DEFAULT 0,
			tax_rate NUMERIC(5, 2) NOT NULL DEFAULT 0,
			tax_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
			discount_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
			total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
			status VARCHAR NOT NULL,
			due_date TIMESTAMP,
			sent_at TIMESTAMP,
			paid_at TIMESTAMP,
			payment_method VARCHAR,
			external_order_id VARCHAR,
			external_transaction_id VARCHAR,
			notes TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS invoice_line_items(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			invoice_id uuid NOT NULL,
			description TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			unit_price NUMERIC(10, 2) NOT NULL,
			total_price NUMERIC(10, 2) NOT NULL,
			item_type VARCHAR NOT NULL DEFAULT 'service',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_invoice FOREIGN KEY(invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS invoice_payments(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			invoice_id uuid NOT NULL,
			amount NUMERIC(10, 2) NOT NULL,
			method VARCHAR NOT NULL,
			external_transaction_id VARCHAR,
			status VARCHAR NOT NULL,
			processed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_invoice FOREIGN KEY(invoice_id) REFERENCES invoices(id) ON DELETE CASCADE
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS system_alerts(
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			user_id uuid NOT NULL,
			type VARCHAR NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			source VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_user FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);
		`,
	}

	for _, migration := range migrations {
		if _, err := tx.ExecContext(ctx, migration); err != nil {
			return err
		}
	}

	return tx.Commit()
}
