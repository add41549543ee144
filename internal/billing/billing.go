// Package billing owns the invoice lifecycle (draft → sent → paid, with
// cancellation from draft or sent) and the reconciliation of external
// payment confirmations against it.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/designdesk/designdesk/internal/notifier"
	"github.com/designdesk/designdesk/internal/payment"
	"github.com/designdesk/designdesk/internal/storage"
	"github.com/shopspring/decimal"
)

var allowedItemTypes = map[string]struct{}{
	entities.LineItemTypeService:      {},
	entities.LineItemTypeProduct:      {},
	entities.LineItemTypeDesign:       {},
	entities.LineItemTypeConsultation: {},
}

type Service struct {
	storage   storage.Storage
	processor payment.Processor
	notifier  notifier.Notifier
}

func NewService(storage storage.Storage, processor payment.Processor, notifier notifier.Notifier) *Service {
	return &Service{
		storage:   storage,
		processor: processor,
		notifier:  notifier,
	}
}

type LineItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	ItemType    string
}

type CreateInvoiceInput struct {
	UserID         string
	RequestID      string
	Title          string
	Description    string
	TaxRate        decimal.Decimal
	DiscountAmount decimal.Decimal
	DueDate        *time.Time
	Items          []LineItemInput
}

type PaymentDetails struct {
	Method                string
	ExternalOrderID       string
	ExternalTransactionID string
	Amount                decimal.Decimal
}

type InvoiceDetail struct {
	Invoice  entities.Invoice
	Items    []entities.InvoiceLineItem
	Payments []entities.PaymentRecord
}

// Create persists a draft invoice with its line items. The subtotal, tax
// and total are computed here; they are never independently settable.
func (s *Service) Create(ctx context.Context, input CreateInvoiceInput) (entities.Invoice, error) {
	if input.Title == "" {
		return entities.Invoice{}, apperrors.NewValidationError("title", "must not be empty")
	}

	items := make([]entities.InvoiceLineItem, 0, len(input.Items))
	for _, itemInput := range input.Items {
		item, err := buildLineItem(itemInput)
		if err != nil {
			return entities.Invoice{}, err
		}

		items = append(items, item)
	}

	invoice := entities.Invoice{
		Number:         fmt.Sprintf("INV-%d", time.Now().UnixNano()),
		UserID:         input.UserID,
		Title:          input.Title,
		TaxRate:        input.TaxRate,
		DiscountAmount: input.DiscountAmount,
		Status:         entities.InvoiceStatusDraft,
	}

	if input.RequestID != "" {
		invoice.RequestID.String = input.RequestID
		invoice.RequestID.Valid = true
	}

	if input.Description != "" {
		invoice.Description.String = input.Description
		invoice.Description.Valid = true
	}

	if input.DueDate != nil {
		invoice.DueDate.Time = *input.DueDate
		invoice.DueDate.Valid = true
	}

	applyTotals(&invoice, items)

	invoiceID, err := s.storage.CreateInvoice(ctx, invoice, items)
	if err != nil {
		return entities.Invoice{}, fmt.Errorf("error create invoice: %w", err)
	}

	invoice.ID = invoiceID

	return invoice, nil
}

func (s *Service) Get(ctx context.Context, invoiceID string) (InvoiceDetail, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return InvoiceDetail{}, err
	}

	items, err := s.storage.GetInvoiceLineItems(ctx, invoiceID)
	if err != nil {
		return InvoiceDetail{}, err
	}

	payments, err := s.storage.GetInvoicePayments(ctx, invoiceID)
	if err != nil {
		return InvoiceDetail{}, err
	}

	return InvoiceDetail{Invoice: invoice, Items: items, Payments: payments}, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]entities.Invoice, error) {
	return s.storage.GetUserInvoices(ctx, userID)
}

func (s *Service) Send(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}

	if invoice.Status != entities.InvoiceStatusDraft {
		return entities.Invoice{}, &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "send",
		}
	}

	if err := s.storage.MarkInvoiceSent(ctx, invoiceID); err != nil {
		return entities.Invoice{}, fmt.Errorf("error mark invoice sent: %w", err)
	}

	return s.getInvoice(ctx, invoiceID)
}

func (s *Service) Cancel(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}

	if invoice.Status != entities.InvoiceStatusDraft && invoice.Status != entities.InvoiceStatusSent {
		return entities.Invoice{}, &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "cancel",
		}
	}

	if err := s.storage.MarkInvoiceCancelled(ctx, invoiceID); err != nil {
		return entities.Invoice{}, fmt.Errorf("error mark invoice cancelled: %w", err)
	}

	return s.getInvoice(ctx, invoiceID)
}

func (s *Service) Delete(ctx context.Context, invoiceID string) error {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	if invoice.Status != entities.InvoiceStatusDraft {
		return &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "delete",
		}
	}

	if err := s.storage.DeleteInvoice(ctx, invoiceID); err != nil {
		return fmt.Errorf("error delete invoice: %w", err)
	}

	return nil
}

func (s *Service) AddLineItem(ctx context.Context, invoiceID string, input LineItemInput) (entities.InvoiceLineItem, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return entities.InvoiceLineItem{}, err
	}

	if invoice.Status != entities.InvoiceStatusDraft {
		return entities.InvoiceLineItem{}, &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "edit",
		}
	}

	item, err := buildLineItem(input)
	if err != nil {
		return entities.InvoiceLineItem{}, err
	}

	item.InvoiceID = invoiceID

	items, err := s.storage.GetInvoiceLineItems(ctx, invoiceID)
	if err != nil {
		return entities.InvoiceLineItem{}, err
	}

	applyTotals(&invoice, append(items, item))

	itemID, err := s.storage.AddInvoiceLineItem(ctx, invoice, item)
	if err != nil {
		return entities.InvoiceLineItem{}, fmt.Errorf("error add invoice line item: %w", err)
	}

	item.ID = itemID

	return item, nil
}

func (s *Service) RemoveLineItem(ctx context.Context, invoiceID string, itemID string) error {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	if invoice.Status != entities.InvoiceStatusDraft {
		return &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "edit",
		}
	}

	items, err := s.storage.GetInvoiceLineItems(ctx, invoiceID)
	if err != nil {
		return err
	}

	remaining := make([]entities.InvoiceLineItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == itemID {
			found = true
			continue
		}

		remaining = append(remaining, item)
	}

	if !found {
		return &apperrors.NotFoundError{Entity: "line item", ID: itemID}
	}

	applyTotals(&invoice, remaining)

	if err := s.storage.RemoveInvoiceLineItem(ctx, invoice, itemID); err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return &apperrors.NotFoundError{Entity: "line item", ID: itemID}
		}

		return fmt.Errorf("error remove invoice line item: %w", err)
	}

	return nil
}

// MarkPaid validates the payment against the invoice total and transitions
// the invoice to paid. Partial payments are not supported: anything below
// the total is rejected. Paying a draft directly is permitted.
func (s *Service) MarkPaid(ctx context.Context, invoiceID string, details PaymentDetails) (entities.Invoice, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}

	if invoice.Status != entities.InvoiceStatusDraft && invoice.Status != entities.InvoiceStatusSent {
		return entities.Invoice{}, &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "pay",
		}
	}

	if details.Amount.LessThan(invoice.TotalAmount) {
		return entities.Invoice{}, apperrors.NewValidationError(
			"amount",
			fmt.Sprintf("insufficient payment: got %s, invoice total is %s", details.Amount.StringFixed(2), invoice.TotalAmount.StringFixed(2)),
		)
	}

	if details.ExternalOrderID != "" {
		invoice.ExternalOrderID.String = details.ExternalOrderID
		invoice.ExternalOrderID.Valid = true
	}

	record := entities.PaymentRecord{
		InvoiceID: invoiceID,
		Amount:    details.Amount,
		Method:    details.Method,
		Status:    entities.PaymentStatusCompleted,
	}

	if details.ExternalTransactionID != "" {
		record.ExternalTransactionID.String = details.ExternalTransactionID
		record.ExternalTransactionID.Valid = true
	}

	if err := s.storage.MarkInvoicePaid(ctx, invoice, record); err != nil {
		return entities.Invoice{}, fmt.Errorf("error mark invoice paid: %w", err)
	}

	s.notifier.Notify(ctx, entities.SystemAlert{
		UserID:  invoice.UserID,
		Type:    entities.AlertTypeSuccess,
		Title:   "Payment received",
		Message: fmt.Sprintf("Invoice %s has been paid.", invoice.Number),
		Source:  entities.AlertSourcePayment,
	})

	return s.getInvoice(ctx, invoiceID)
}

func (s *Service) getInvoice(ctx context.Context, invoiceID string) (entities.Invoice, error) {
	invoice, err := s.storage.GetInvoiceByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return entities.Invoice{}, &apperrors.NotFoundError{Entity: "invoice", ID: invoiceID}
		}

		return entities.Invoice{}, err
	}

	return invoice, nil
}

func buildLineItem(input LineItemInput) (entities.InvoiceLineItem, error) {
	if input.Description == "" {
		return entities.InvoiceLineItem{}, apperrors.NewValidationError("description", "must not be empty")
	}

	if input.Quantity <= 0 {
		return entities.InvoiceLineItem{}, apperrors.NewValidationError("quantity", "must be positive")
	}

	if input.UnitPrice.IsNegative() {
		return entities.InvoiceLineItem{}, apperrors.NewValidationError("unit_price", "must not be negative")
	}

	itemType := input.ItemType
	if itemType == "" {
		itemType = entities.LineItemTypeService
	}

	if _, ok := allowedItemTypes[itemType]; !ok {
		return entities.InvoiceLineItem{}, apperrors.NewValidationError("item_type", fmt.Sprintf("unknown item type %q", itemType))
	}

	return entities.InvoiceLineItem{
		Description: input.Description,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalPrice:  input.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))),
		ItemType:    itemType,
	}, nil
}

// applyTotals recomputes subtotal, tax and total from the line items. The
// subtotal always equals the sum of item totals.
func applyTotals(invoice *entities.Invoice, items []entities.InvoiceLineItem) {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}

	taxAmount := subtotal.Mul(invoice.TaxRate).Div(decimal.NewFromInt(100)).Round(2)

	invoice.Subtotal = subtotal
	invoice.TaxAmount = taxAmount
	invoice.TotalAmount = subtotal.Add(taxAmount).Sub(invoice.DiscountAmount)
}
