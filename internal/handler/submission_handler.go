package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sahil-chaple/happy-street-godhani/internal/models"
	"github.com/sahil-chaple/happy-street-godhani/internal/service"
)

const submittedMessage = "Application submitted successfully! Our team will contact you soon on WhatsApp. 🎟️🚀"

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.SubmissionInput
	if err := readJSON(w, r, &in); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.svc.Create(r.Context(), in); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeFailure(w, http.StatusBadRequest, verr.Msg)
			return
		}
		writeInternal(w, r, err, "Error submitting application")
		return
	}
	writeMessage(w, submittedMessage)
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		writeInternal(w, r, err, "Error fetching data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": subs})
}

func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeInternal(w, r, err, "Error updating")
		return
	}
	writeMessage(w, "Status updated")
}

func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeInternal(w, r, err, "Error deleting")
		return
	}
	writeMessage(w, "Deleted successfully")
}

// ExportCSV streams every submission as a CSV attachment.
func (h *SubmissionHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportCSV(r.Context())
	if err != nil {
		writeInternal(w, r, err, "Export failed")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
