package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
)

type LocationHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService location.Service
}

func NewLocationHandler(locationService location.Service) LocationHandler {
	return &locationHandlerImpl{
		locationService: locationService,
	}
}

// Report implements LocationHandler.
func (h *locationHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	var req location.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Debug("Failed to decode location report", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	id, err := workerID(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.WorkerID = id

	result, err := h.locationService.Report(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
