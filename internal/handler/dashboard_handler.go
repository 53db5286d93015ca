package handler

import (
	"net/http"

	"github.com/sahil-chaple/happy-street-godhani/internal/service"
)

type DashboardHandler struct {
	subSvc *service.SubmissionService
}

func NewDashboardHandler(subSvc *service.SubmissionService) *DashboardHandler {
	return &DashboardHandler{subSvc: subSvc}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.subSvc.Stats(r.Context())
	if err != nil {
		writeInternal(w, r, err, "Error fetching data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}
