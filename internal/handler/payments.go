package handler

import (
	"encoding/json"
	"net/http"

	"github.com/designdesk/designdesk/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (h *Handler) CapturePayment(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	var requestModel models.CaptureRequest
	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json: %w", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := h.billing.Capture(
		req.Context(),
		requestModel.InvoiceID,
		requestModel.ExternalOrderID,
		requestModel.ExternalTransactionID,
		decimal.NewFromFloat(requestModel.Amount),
	)
	if err != nil {
		zap.L().Info("error capture payment: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toCaptureResponse(result))
}

func (h *Handler) DeclinePayment(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	requestModel, err := h.decodePaymentSignal(req)
	if err != nil {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := h.billing.Decline(req.Context(), requestModel.InvoiceID)
	if err != nil {
		zap.L().Info("error handle declined payment: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toCaptureResponse(result))
}

func (h *Handler) CancelPayment(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	requestModel, err := h.decodePaymentSignal(req)
	if err != nil {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	result, err := h.billing.CancelPayment(req.Context(), requestModel.InvoiceID)
	if err != nil {
		zap.L().Info("error handle cancelled payment: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusOK, toCaptureResponse(result))
}

func (h *Handler) decodePaymentSignal(req *http.Request) (models.PaymentSignalRequest, error) {
	var requestModel models.PaymentSignalRequest

	decoder := json.NewDecoder(req.Body)
	if err := decoder.Decode(&requestModel); err != nil {
		zap.L().Info("cannot decode request to json: %w", zap.Error(err))

		return models.PaymentSignalRequest{}, err
	}

	return requestModel, nil
}
