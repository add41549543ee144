package handler

import (
	"time"

	"github.com/designdesk/designdesk/internal/billing"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/designdesk/designdesk/internal/intake"
	"github.com/designdesk/designdesk/internal/models"
)

func toRequestResponse(request entities.DesignRequest) models.RequestResponse {
	response := models.RequestResponse{
		ID:          request.ID,
		Title:       request.Title,
		Description: request.Description,
		Category:    request.Category,
		Style:       request.Style,
		Priority:    request.Priority,
		Status:      request.Status,
		Price:       request.Price.StringFixed(2),
	}

	if !request.CreatedAt.IsZero() {
		response.CreatedAt = request.CreatedAt.Format(time.RFC3339)
	}

	return response
}

func toAttachmentResponses(attachments []entities.Attachment) []models.AttachmentResponse {
	responses := make([]models.AttachmentResponse, 0, len(attachments))

	for _, attachment := range attachments {
		responses = append(responses, models.AttachmentResponse{
			ID:       attachment.ID,
			Name:     attachment.Name,
			URL:      attachment.URL,
			Size:     attachment.Size,
			MimeType: attachment.MimeType,
		})
	}

	return responses
}

func toUploadFailures(failures []intake.UploadFailure) []models.UploadFailure {
	responses := make([]models.UploadFailure, 0, len(failures))

	for _, failure := range failures {
		responses = append(responses, models.UploadFailure{
			Name:  failure.Name,
			Error: failure.Err.Error(),
		})
	}

	return responses
}

func toInvoiceResponse(invoice entities.Invoice) models.InvoiceResponse {
	response := models.InvoiceResponse{
		ID:             invoice.ID,
		Number:         invoice.Number,
		Title:          invoice.Title,
		Subtotal:       invoice.Subtotal.StringFixed(2),
		TaxRate:        invoice.TaxRate.StringFixed(2),
		TaxAmount:      invoice.TaxAmount.StringFixed(2),
		DiscountAmount: invoice.DiscountAmount.StringFixed(2),
		TotalAmount:    invoice.TotalAmount.StringFixed(2),
		Status:         invoice.DisplayStatus(time.Now()),
	}

	if invoice.DueDate.Valid {
		response.DueDate = invoice.DueDate.Time.Format(time.RFC3339)
	}

	if invoice.SentAt.Valid {
		response.SentAt = invoice.SentAt.Time.Format(time.RFC3339)
	}

	if invoice.PaidAt.Valid {
		response.PaidAt = invoice.PaidAt.Time.Format(time.RFC3339)
	}

	if invoice.PaymentMethod.Valid {
		response.PaymentMethod = invoice.PaymentMethod.String
	}

	if !invoice.CreatedAt.IsZero() {
		response.CreatedAt = invoice.CreatedAt.Format(time.RFC3339)
	}

	return response
}

func toLineItemResponse(item entities.InvoiceLineItem) models.LineItemResponse {
	return models.LineItemResponse{
		ID:          item.ID,
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice.StringFixed(2),
		TotalPrice:  item.TotalPrice.StringFixed(2),
		ItemType:    item.ItemType,
	}
}

func toInvoiceDetailResponse(detail billing.InvoiceDetail) models.InvoiceDetailResponse {
	items := make([]models.LineItemResponse, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, toLineItemResponse(item))
	}

	payments := make([]models.PaymentResponse, 0, len(detail.Payments))
	for _, payment := range detail.Payments {
		response := models.PaymentResponse{
			ID:     payment.ID,
			Amount: payment.Amount.StringFixed(2),
			Method: payment.Method,
			Status: payment.Status,
		}

		if payment.ExternalTransactionID.Valid {
			response.ExternalTransactionID = payment.ExternalTransactionID.String
		}

		if !payment.ProcessedAt.IsZero() {
			response.ProcessedAt = payment.ProcessedAt.Format(time.RFC3339)
		}

		payments = append(payments, response)
	}

	return models.InvoiceDetailResponse{
		Invoice:  toInvoiceResponse(detail.Invoice),
		Items:    items,
		Payments: payments,
	}
}

func toCaptureResponse(result billing.CaptureResult) models.CaptureResponse {
	return models.CaptureResponse{
		Outcome: result.Outcome,
		Message: result.Message,
		Invoice: toInvoiceResponse(result.Invoice),
	}
}
