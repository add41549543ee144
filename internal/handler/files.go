package handler

import (
	"net/http"

	"github.com/designdesk/designdesk/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) AttachFiles(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	requestID := chi.URLParam(req, "requestID")

	if err := req.ParseMultipartForm(maxUploadMemory); err != nil {
		zap.L().Info("cannot parse multipart form: %w", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	files, err := readMultipartFiles(req.MultipartForm.File["files"])
	if err != nil {
		zap.L().Info("cannot read multipart files: %w", zap.Error(err))

		res.WriteHeader(http.StatusBadRequest)
		return
	}

	attachments, failures, err := h.intake.AttachToRequest(req.Context(), requestID, userID, files)
	if err != nil {
		zap.L().Info("error attach files: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	h.writeJSON(res, http.StatusCreated, models.AttachResponse{
		Attachments:    toAttachmentResponses(attachments),
		UploadFailures: toUploadFailures(failures),
	})
}

func (h *Handler) GetRequestFiles(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	requestID := chi.URLParam(req, "requestID")

	attachments, err := h.storage.GetRequestAttachments(req.Context(), requestID)
	if err != nil {
		zap.L().Info("error get request attachments: %w", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeJSON(res, http.StatusOK, toAttachmentResponses(attachments))
}
