package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/designdesk/designdesk/internal/billing"
	"github.com/designdesk/designdesk/internal/intake"
	"github.com/designdesk/designdesk/internal/middleware"
	"github.com/designdesk/designdesk/internal/models"
	"github.com/designdesk/designdesk/internal/storage"
	"go.uber.org/zap"
)

type Handler struct {
	storage storage.Storage
	intake  *intake.Service
	billing *billing.Service
}

func NewHandler(storage storage.Storage, intake *intake.Service, billing *billing.Service) *Handler {
	return &Handler{
		storage: storage,
		intake:  intake,
		billing: billing,
	}
}

func (h *Handler) getUserIDFromReqContext(req *http.Request) string {
	userID, ok := req.Context().Value(middleware.UserIDKey{}).(string)
	if !ok {
		return ""
	}

	return userID
}

func (h *Handler) writeJSON(res http.ResponseWriter, status int, body any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)

	jsonEncoder := json.NewEncoder(res)
	if err := jsonEncoder.Encode(body); err != nil {
		zap.L().Info("cannot encode response JSON body: %w", zap.Error(err))
	}
}

// writeError maps the error taxonomy to HTTP statuses. Every branch keeps a
// human-readable message in the body so failures stay distinguishable.
func (h *Handler) writeError(res http.ResponseWriter, err error) {
	var (
		validationErr   *apperrors.ValidationError
		invalidStateErr *apperrors.InvalidStateError
		notFoundErr     *apperrors.NotFoundError
		externalErr     *apperrors.ExternalServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		h.writeJSON(res, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.As(err, &invalidStateErr):
		h.writeJSON(res, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
	case errors.As(err, &notFoundErr):
		h.writeJSON(res, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
	case errors.As(err, &externalErr):
		h.writeJSON(res, http.StatusBadGateway, models.ErrorResponse{Error: err.Error()})
	default:
		h.writeJSON(res, http.StatusInternalServerError, models.ErrorResponse{Error: "internal error, contact support"})
	}
}
