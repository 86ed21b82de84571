package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/service"
)

func registerRoutes(mux *http.ServeMux, deps Deps) {
	h := &handlers{deps: deps}

	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("POST /api/attendance", h.submitTransition)
	mux.HandleFunc("GET /api/status", h.getStatus)
	mux.HandleFunc("GET /api/history", h.getHistory)
	mux.HandleFunc("GET /api/my-stats", h.getStats)
	mux.HandleFunc("GET /api/notifications", h.listNotifications)
	mux.HandleFunc("POST /api/notifications", h.sendNotification)
	mux.HandleFunc("POST /api/notifications/{id}/read", h.markNotificationRead)
	if deps.Hub != nil {
		mux.Handle("/ws", deps.Hub.Handler())
	}
}

type handlers struct {
	deps Deps
}

type transitionRequest struct {
	EmployeeID string `json:"employeeId"`
	Event      string `json:"event"`
}

type notificationRequest struct {
	EmployeeID string `json:"employeeId"`
	Title      string `json:"title"`
	Message    string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) submitTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	view, err := h.deps.Attendance.SubmitTransition(r.Context(), req.EmployeeID, domain.TransitionEvent(req.Event))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handlers) getStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "employee_id is required"})
		return
	}

	view, err := h.deps.Attendance.GetStatus(r.Context(), app.StatusRequest{EmployeeID: employeeID})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employeeID := q.Get("employee_id")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "employee_id is required"})
		return
	}

	month := q.Get("month")
	if month != "" {
		if _, err := time.Parse(service.MonthLayout, month); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month, expected YYYY-MM"})
			return
		}
	}

	req := app.HistoryRequest{
		EmployeeID: employeeID,
		Month:      month,
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		req.Limit = limit
	}

	resp, err := h.deps.Attendance.GetHistory(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "employee_id is required"})
		return
	}

	stats, err := h.deps.Attendance.GetStats(r.Context(), app.StatusRequest{EmployeeID: employeeID})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "employee_id is required"})
		return
	}

	views, err := h.deps.Notifications.List(r.Context(), employeeID, 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handlers) sendNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.EmployeeID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "employeeId is required"})
		return
	}

	if err := h.deps.Notifications.Notify(r.Context(), req.EmployeeID, req.Title, req.Message); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "notification id is required"})
		return
	}

	if err := h.deps.Notifications.MarkRead(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// writeServiceError maps service errors onto HTTP status codes: rejected
// transitions are client errors, lost races are conflicts, and store
// failures are service unavailability.
func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrDayAlreadyClosed),
		errors.Is(err, engine.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("server: request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}
