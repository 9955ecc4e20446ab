package inbound

import (
	"strconv"

	"github.com/lankagov/gnportal/internal/document/entity"
	"github.com/lankagov/gnportal/internal/document/usecase"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
	"github.com/lankagov/gnportal/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Upload submits a supporting document.
// @Summary Upload document
// @Tags Document
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "PDF, JPEG or PNG"
// @Param kind formData string true "Document kind, e.g. nic_copy"
// @Param appointment_id formData string false "Related appointment"
// @Success 201 {object} router.successResponse{data=UploadResponse}
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/documents [post]
func (h *HTTPEndpoint) Upload(r *router.Request) (any, error) {
	ff, err := r.ParseFormFile("file", h.uc.MaxSize())
	if err != nil {
		return nil, err
	}
	defer ff.File.Close()

	var appointmentID int64
	if v := ff.Fields["appointment_id"]; v != "" {
		appointmentID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, goerror.NewInvalidInput(nil, "appointment_id", "must be a number")
		}
	}

	doc, err := h.uc.Upload(r.Context(), usecase.UploadInput{
		Kind:          ff.Fields["kind"],
		AppointmentID: appointmentID,
		Filename:      ff.Filename,
		Size:          ff.Size,
		Body:          ff.File,
	})
	if err != nil {
		return nil, err
	}

	return UploadResponse{toDocumentResponse(*doc)}, nil
}

// ListMine returns the caller's documents.
// @Summary My documents
// @Tags Document
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=[]DocumentResponse}
// @Router /api/v1/documents [get]
func (h *HTTPEndpoint) ListMine(r *router.Request) (any, error) {
	list, err := h.uc.ListMine(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]DocumentResponse, 0, len(list))
	for _, d := range list {
		resp = append(resp, toDocumentResponse(d))
	}
	return resp, nil
}

// Download returns a short lived link to the document.
// @Summary Download document
// @Tags Document
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} router.successResponse{data=DownloadResponse}
// @Failure 403 {object} router.errorResponse "Not allowed"
// @Failure 404 {object} router.errorResponse "Document not found"
// @Router /api/v1/documents/{id}/download [get]
func (h *HTTPEndpoint) Download(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	out, err := h.uc.Download(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return DownloadResponse{URL: out.URL, ExpiresAt: out.ExpiresAt, Filename: out.Document.Filename}, nil
}

// Review approves or rejects a submitted document.
// @Summary Review document
// @Tags Officer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param request body ReviewRequest true "Outcome: Approved or Rejected"
// @Success 200 {object} router.successResponse{data=ReviewResponse}
// @Failure 409 {object} router.errorResponse "Document has already been reviewed"
// @Router /api/v1/officer/documents/{id}/review [post]
func (h *HTTPEndpoint) Review(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req ReviewRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	doc, err := h.uc.Review(r.Context(), usecase.ReviewInput{
		DocumentID: id,
		Outcome:    entity.DocumentStatus(req.Outcome),
		Note:       req.Note,
	})
	if err != nil {
		return nil, err
	}

	return ReviewResponse{toDocumentResponse(*doc)}, nil
}
