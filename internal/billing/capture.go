package billing

import (
	"context"
	"fmt"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/shopspring/decimal"
)

const (
	OutcomeCompleted   = "completed"
	OutcomeAlreadyPaid = "already_paid"
	OutcomeRetry       = "retry"
	OutcomeCancelled   = "cancelled"
)

// CaptureResult distinguishes hard payment failures from the two
// recoverable processor signals: a declined instrument (retry) and a closed
// payment window (informational, invoice untouched).
type CaptureResult struct {
	Outcome string
	Message string
	Invoice entities.Invoice
}

// Checkout asks the processor to create an external order for a sent
// invoice. Drafts cannot be checked out even though they can be marked paid
// directly.
func (s *Service) Checkout(ctx context.Context, invoiceID string) (entities.Invoice, string, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, "", err
	}

	if invoice.Status != entities.InvoiceStatusSent {
		return entities.Invoice{}, "", &apperrors.InvalidStateError{
			Entity: "invoice", ID: invoiceID, State: invoice.Status, Op: "checkout",
		}
	}

	descriptor, err := s.processor.CreateOrder(ctx, invoiceID, fmt.Sprintf("Payment for %s", invoice.Title), invoice.TotalAmount)
	if err != nil {
		return entities.Invoice{}, "", err
	}

	return invoice, descriptor.ApproveURL, nil
}

// Capture reconciles an external capture confirmation. Repeated captures
// for an already-paid invoice are a no-op success, so confirmations can be
// retried safely without duplicating payment records.
func (s *Service) Capture(ctx context.Context, invoiceID string, externalOrderID string, externalTransactionID string, amount decimal.Decimal) (CaptureResult, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return CaptureResult{}, err
	}

	if invoice.Status == entities.InvoiceStatusPaid {
		return CaptureResult{
			Outcome: OutcomeAlreadyPaid,
			Message: fmt.Sprintf("Invoice %s is already paid.", invoice.Number),
			Invoice: invoice,
		}, nil
	}

	if !amount.IsPositive() {
		return CaptureResult{}, apperrors.NewValidationError("amount", "must be positive")
	}

	paid, err := s.MarkPaid(ctx, invoiceID, PaymentDetails{
		Method:                entities.PaymentMethodPayPal,
		ExternalOrderID:       externalOrderID,
		ExternalTransactionID: externalTransactionID,
		Amount:                amount,
	})
	if err != nil {
		return CaptureResult{}, err
	}

	return CaptureResult{
		Outcome: OutcomeCompleted,
		Message: fmt.Sprintf("Invoice %s has been paid successfully.", paid.Number),
		Invoice: paid,
	}, nil
}

// Decline handles the declined-instrument signal. The invoice keeps its
// state and the caller may retry the capture.
func (s *Service) Decline(ctx context.Context, invoiceID string) (CaptureResult, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return CaptureResult{}, err
	}

	return CaptureResult{
		Outcome: OutcomeRetry,
		Message: "Your payment method was declined. Please try again with a different method.",
		Invoice: invoice,
	}, nil
}

// CancelPayment handles the window-closed / user-cancelled signal. Not an
// error: the invoice stays in its prior state.
func (s *Service) CancelPayment(ctx context.Context, invoiceID string) (CaptureResult, error) {
	invoice, err := s.getInvoice(ctx, invoiceID)
	if err != nil {
		return CaptureResult{}, err
	}

	return CaptureResult{
		Outcome: OutcomeCancelled,
		Message: "The payment window was closed. You can try again anytime.",
		Invoice: invoice,
	}, nil
}
