package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/designdesk/designdesk/internal/intake"
	"github.com/designdesk/designdesk/internal/models"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

func (h *Handler) SubmitRequest(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

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

	submission := intake.Submission{
		Category:    req.FormValue("project_type"),
		Title:       req.FormValue("title"),
		Description: req.FormValue("description"),
		Style:       req.FormValue("style"),
		Timeline:    req.FormValue("timeline"),
		Budget:      req.FormValue("budget"),
		Files:       files,
	}

	request, events, err := h.intake.Submit(req.Context(), userID, submission)
	if err != nil {
		zap.L().Info("error submit request: %w", zap.Error(err))

		h.writeError(res, err)
		return
	}

	outcome := h.intake.Drain(req.Context(), events)

	h.writeJSON(res, http.StatusCreated, models.SubmitResponse{
		Request:        toRequestResponse(request),
		Attachments:    toAttachmentResponses(outcome.Attachments),
		UploadFailures: toUploadFailures(outcome.UploadFailures),
		XPAwarded:      outcome.XPAwarded,
	})
}

func (h *Handler) GetRequests(res http.ResponseWriter, req *http.Request) {
	userID := h.getUserIDFromReqContext(req)
	if userID == "" {
		res.WriteHeader(http.StatusUnauthorized)
		return
	}

	requests, err := h.storage.GetUserRequests(req.Context(), userID)
	if err != nil {
		zap.L().Info("error get user requests from database: %w", zap.Error(err))

		res.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(requests) == 0 {
		res.WriteHeader(http.StatusNoContent)
		return
	}

	responseRequests := make([]models.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responseRequests = append(responseRequests, toRequestResponse(request))
	}

	h.writeJSON(res, http.StatusOK, responseRequests)
}

func readMultipartFiles(headers []*multipart.FileHeader) ([]intake.File, error) {
	files := make([]intake.File, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}

		files = append(files, intake.File{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Data:     data,
		})
	}

	return files, nil
}
