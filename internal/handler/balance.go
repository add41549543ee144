package handler

import (
	"net/http"

	"github.com/designdesk/designdesk/internal/models"
	"go.uber.org/zap"
)

func (h *Handler) GetBalance(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	user, err := h.storage.GetUserByID(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get user: %w", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(res, http.StatusOK, models.BalanceResponse{
		XP:    user.XP,
		Level: user.Level,
	})
}
