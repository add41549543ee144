package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/designdesk/designdesk/internal/billing"
	"github.com/designdesk/designdesk/internal/entities"
	"github.com/designdesk/designdesk/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (h *Handler) CreateInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.CreateInvoiceRequest
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json: %w", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	input := billing.CreateInvoiceInput{
		UserID:         userID,
		RequestID:      requestModel.RequestID,
		Title:          requestModel.Title,
		Description:    requestModel.Description,
		TaxRate:        decimal.NewFromFloat(requestModel.TaxRate),
		DiscountAmount: decimal.NewFromFloat(requestModel.DiscountAmount),
		Items:          toLineItemInputs(requestModel.Items),
	}

	if requestModel.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, requestModel.DueDate)
		if err != nil {
			zap.L().Info("cannot parse due date: %w", zap.Error(err))

			res.WriteHeader(http.StatusBadRequest)
			return
		}

		input.DueDate = &dueDate
	}

	invoice, err := h.billing.Create(req.Context(), input)
	if err != nil {
		zap.L().Info("error create invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusCreated, toInvoiceResponse(invoice))
}

func (h *Handler) GetInvoices(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	invoices, err := h.billing.ListForUser(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get user invoices: %w", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(invoices) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	responseInvoices := make([]models.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		responseInvoices = append(responseInvoices, toInvoiceResponse(invoice))
	}

	h.writeJSON(res, http.StatusOK, responseInvoices)
}

func (h *Handler) GetInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	detail, err := h.billing.Get(req.Context(), chi.URLParam(req, "invoiceID"))
	if err != nil {
		zap.L().Info("error get invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toInvoiceDetailResponse(detail))
}

func (h *Handler) SendInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	invoice, err := h.billing.Send(req.Context(), chi.URLParam(req, "invoiceID"))
	if err != nil {
		zap.L().Info("error send invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toInvoiceResponse(invoice))
}

func (h *Handler) CancelInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	invoice, err := h.billing.Cancel(req.Context(), chi.URLParam(req, "invoiceID"))
	if err != nil {
		zap.L().Info("error cancel invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toInvoiceResponse(invoice))
}

func (h *Handler) DeleteInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := h.billing.Delete(req.Context(), chi.URLParam(req, "invoiceID")); err != nil {
		zap.L().Info("error delete invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	res.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddInvoiceItem(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.LineItemRequest
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json: %w", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	item, err := h.billing.AddLineItem(req.Context(), chi.URLParam(req, "invoiceID"), billing.LineItemInput{
		Description: requestModel.Description,
		Quantity:    requestModel.Quantity,
		UnitPrice:   decimal.NewFromFloat(requestModel.UnitPrice),
		ItemType:    requestModel.ItemType,
	})
	if err != nil {
		zap.L().Info("error add invoice line item: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusCreated, toLineItemResponse(item))
}

func (h *Handler) RemoveInvoiceItem(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	err := h.billing.RemoveLineItem(req.Context(), chi.URLParam(req, "invoiceID"), chi.URLParam(req, "itemID"))
	if err != nil {
		zap.L().Info("error remove invoice line item: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	res.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PayInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.PayInvoiceRequest
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json: %w", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	method := requestModel.Method
	if method == "" {
		method = entities.PaymentMethodManual
	}

	invoice, err := h.billing.MarkPaid(req.Context(), chi.URLParam(req, "invoiceID"), billing.PaymentDetails{
		Method:                method,
		ExternalOrderID:       requestModel.ExternalOrderID,
		ExternalTransactionID: requestModel.ExternalTransactionID,
		Amount:                decimal.NewFromFloat(requestModel.Amount),
	})
	if err != nil {
		zap.L().Info("error pay invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toInvoiceResponse(invoice))
}

func (h *Handler) CheckoutInvoice(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	invoice, approveURL, err := h.billing.Checkout(req.Context(), chi.URLParam(req, "invoiceID"))
	if err != nil {
		zap.L().Info("error checkout invoice: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusCreated, models.CheckoutResponse{
		InvoiceID:  invoice.ID,
		ApproveURL: approveURL,
	})
}

func toLineItemInputs(items []models.LineItemRequest) []billing.LineItemInput {
	inputs := make([]billing.LineItemInput, 0, len(items))

	for _, item := range items {
		inputs = append(inputs, billing.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
			ItemType:    item.ItemType,
		})
	}

	return inputs
}
