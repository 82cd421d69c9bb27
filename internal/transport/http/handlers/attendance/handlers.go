package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/attendance"
	"staffhub/internal/domain/audit"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/check-in", h.handleCheckIn)
		r.Post("/check-out", h.handleCheckOut)
		r.Get("/me", h.handleSelfHistory)
		r.With(middleware.RequireElevated).Get("/", h.handleHistory)
		r.With(middleware.RequireElevated).Put("/{employeeID}", h.handleOverride)
	})
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	record, err := h.Service.CheckIn(r.Context(), identity.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			api.Fail(w, http.StatusConflict, "day already closed", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "check-in failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"attendance": record})
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	record, err := h.Service.CheckOut(r.Context(), identity.EmployeeID)
	switch {
	case errors.Is(err, attendance.ErrNotCheckedIn):
		api.Fail(w, http.StatusConflict, "not checked in today", reqID)
		return
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		api.Fail(w, http.StatusConflict, "already checked out today", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "check-out failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"attendance": record})
}

func (h *Handler) handleSelfHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	from, to, ok := parseRange(w, r, reqID)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 500)
	result, err := h.Service.HistoryForEmployee(r.Context(), identity.EmployeeID, from, to, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance history failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"attendance": result.Records,
		"total":      result.Total,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	from, to, ok := parseRange(w, r, reqID)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 100, 500)

	if employeeID := r.URL.Query().Get("employeeId"); employeeID != "" {
		result, err := h.Service.HistoryForEmployee(r.Context(), employeeID, from, to, page.Limit, page.Offset)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "attendance history failed", reqID)
			return
		}
		api.Success(w, http.StatusOK, reqID, map[string]any{
			"attendance": result.Records,
			"total":      result.Total,
		})
		return
	}

	result, err := h.Service.History(r.Context(), from, to, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance history failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"attendance": result.Records,
		"total":      result.Total,
	})
}

func (h *Handler) handleOverride(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload struct {
		Date     string     `json:"date"`
		CheckIn  *time.Time `json:"checkIn"`
		CheckOut *time.Time `json:"checkOut"`
		Status   string     `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	day, okDate := v.Date("date", payload.Date)
	if payload.Status != "" && !attendance.ValidStatus(payload.Status) {
		v.Add("status", "must be one of present, absent, half_day, leave")
	}
	if v.Reject(w, reqID) || !okDate {
		return
	}

	record, err := h.Service.Override(r.Context(), employeeID, day, payload.CheckIn, payload.CheckOut, payload.Status)
	if err != nil {
		if errors.Is(err, attendance.ErrCheckOutBeforeCheckIn) {
			api.Fail(w, http.StatusBadRequest, "check-out before check-in", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance update failed", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), identity.AccountID, "attendance.override", "attendance", record.ID, reqID, shared.ClientIP(r), nil, record); err != nil {
		slog.Warn("audit attendance.override failed", "error", err)
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"attendance": record})
}

func parseRange(w http.ResponseWriter, r *http.Request, reqID string) (time.Time, time.Time, bool) {
	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid from date", reqID)
		return time.Time{}, time.Time{}, false
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid to date", reqID)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
