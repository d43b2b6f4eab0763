package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ConfirmationHandler interface {
	ListWorkers(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type confirmationHandlerImpl struct {
	confirmationService confirmation.Service
	hub                 *sse.Hub
	keepalive           time.Duration
}

func NewConfirmationHandler(confirmationService confirmation.Service, hub *sse.Hub) ConfirmationHandler {
	return &confirmationHandlerImpl{
		confirmationService: confirmationService,
		hub:                 hub,
		keepalive:           30 * time.Second,
	}
}

// ListWorkers implements ConfirmationHandler.
func (h *confirmationHandlerImpl) ListWorkers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := confirmation.ListRequest{
		EventID:  chi.URLParam(r, "eventID"),
		Language: confirmation.Language(query.Get("lang")),
	}

	if raw := query.Get("within_range"); raw != "" {
		withinRange, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "within_range must be a boolean", nil)
			return
		}
		req.WithinRangeOnly = withinRange
	}

	result, err := h.confirmationService.ListConfirmedWorkers(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stream pushes attendance transitions of one event to an admin view.
func (h *confirmationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	if !validator.IsValidUUID(eventID) {
		response.HandleError(w, validator.ValidationErrors{{Field: "event_id", Message: "event_id must be a valid UUID"}})
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(eventID)
	defer cleanup()

	clientID := uuid.NewString()
	slog.Debug("Admin stream opened", "event_id", eventID, "client_id", clientID, "subscribers", h.hub.SubscriberCount(eventID))
	defer slog.Debug("Admin stream closed", "event_id", eventID, "client_id", clientID)

	fmt.Fprintf(w, "event: connected\ndata: {\"event_id\":%q,\"client_id\":%q}\n\n", eventID, clientID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
