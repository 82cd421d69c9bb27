package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/leave"
	"staffhub/internal/domain/notifications"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Notify   *notifications.Service
	Accounts auth.StoreAPI
}

func NewHandler(service *leave.Service, notify *notifications.Service, accounts auth.StoreAPI) *Handler {
	return &Handler{Service: service, Notify: notify, Accounts: accounts}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.Post("/", h.handleApply)
		r.Get("/me", h.handleSelfHistory)
		r.Get("/balance", h.handleSelfBalance)
		r.With(middleware.RequireElevated).Get("/", h.handleList)
		r.With(middleware.RequireElevated).Get("/balance/{employeeID}", h.handleBalance)
		r.With(middleware.RequireElevated).Put("/balance/{employeeID}", h.handleSetAllowance)
		r.Get("/{requestID}", h.handleDetail)
		r.With(middleware.RequireElevated).Post("/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequireElevated).Post("/{requestID}/reject", h.handleReject)
	})
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	var payload struct {
		Type      string `json:"leaveType"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Remarks   string `json:"remarks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Enum("leaveType", payload.Type, leave.Types(), "must be one of sick, casual, annual, maternity, paternity")
	v.Required("leaveType", payload.Type, "leave type is required")
	start, okStart := v.Date("startDate", payload.StartDate)
	end, okEnd := v.Date("endDate", payload.EndDate)
	if okStart && okEnd {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, reqID) {
		return
	}

	request, err := h.Service.Apply(r.Context(), identity.EmployeeID, payload.Type, start, end, payload.Remarks)
	if err != nil {
		if errors.Is(err, leave.ErrInvalidType) || errors.Is(err, leave.ErrEndBeforeStart) {
			api.Fail(w, http.StatusBadRequest, err.Error(), reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave request failed", reqID)
		return
	}

	h.notifyApprovers(r, request)
	api.Success(w, http.StatusCreated, reqID, map[string]any{"leave": request})
}

func (h *Handler) handleSelfHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	requests, total, err := h.Service.Store.ListByEmployee(r.Context(), identity.EmployeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave history failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"leaves": requests,
		"total":  total,
	})
}

func (h *Handler) handleSelfBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}
	h.writeBalance(w, r, identity.EmployeeID, reqID)
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	h.writeBalance(w, r, chi.URLParam(r, "employeeID"), reqID)
}

func (h *Handler) writeBalance(w http.ResponseWriter, r *http.Request, employeeID, reqID string) {
	year := 0
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid year", reqID)
			return
		}
		year = parsed
	}

	balance, err := h.Service.BalanceFor(r.Context(), employeeID, year)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balance computation failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"balance": balance})
}

func (h *Handler) handleSetAllowance(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload leave.Allowance
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}
	payload.EmployeeID = employeeID

	allowance, err := h.Service.SetAllowance(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "allowance update failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"allowance": allowance})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	status := r.URL.Query().Get("status")

	requests, total, err := h.Service.Store.ListAll(r.Context(), status, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave list failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"leaves": requests,
		"total":  total,
	})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	request, err := h.Service.RequestWithHistory(r.Context(), chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "leave request not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "leave lookup failed", reqID)
		return
	}
	if request.EmployeeID != identity.EmployeeID && !identity.Role.Elevated() {
		api.Fail(w, http.StatusForbidden, "insufficient permissions", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"leave": request})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, false)
}

func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request, approve bool) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var payload struct {
		Comment string `json:"comment"`
	}
	if r.Body != nil {
		// Comment is optional; an empty body is fine.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	request, err := h.Service.Decide(r.Context(), requestID, identity.AccountID, approve, payload.Comment)
	switch {
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "leave request not found", reqID)
		return
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "leave request already decided", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave decision failed", reqID)
		return
	}

	h.notifyEmployee(r, request)
	api.Success(w, http.StatusOK, reqID, map[string]any{"leave": request})
}

// notifyApprovers fans a submitted request out to every elevated account.
// Notification failures never fail the request itself.
func (h *Handler) notifyApprovers(r *http.Request, request leave.Request) {
	approvers, err := h.Accounts.ElevatedAccounts(r.Context())
	if err != nil {
		slog.Warn("approver lookup failed", "error", err)
		return
	}
	for _, approver := range approvers {
		_, err := h.Notify.Notify(r.Context(), notifications.Notification{
			AccountID: approver.ID,
			Type:      notifications.TypeLeaveSubmitted,
			Title:     "Leave request submitted",
			Message:   fmt.Sprintf("%s requested %s leave from %s to %s", request.EmployeeID, request.Type, request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02")),
			Metadata:  map[string]any{"requestId": request.ID, "employeeId": request.EmployeeID},
		}, approver.Email)
		if err != nil {
			slog.Warn("leave submitted notification failed", "accountId", approver.ID, "error", err)
		}
	}
}

func (h *Handler) notifyEmployee(r *http.Request, request leave.Request) {
	account, err := h.Accounts.AccountByEmployeeID(r.Context(), request.EmployeeID)
	if err != nil {
		slog.Warn("employee account lookup failed", "employeeId", request.EmployeeID, "error", err)
		return
	}

	notifType := notifications.TypeLeaveRejected
	title := "Leave request rejected"
	if request.Status == leave.StatusApproved {
		notifType = notifications.TypeLeaveApproved
		title = "Leave request approved"
	}
	_, err = h.Notify.Notify(r.Context(), notifications.Notification{
		AccountID: account.ID,
		Type:      notifType,
		Title:     title,
		Message:   fmt.Sprintf("Your %s leave from %s to %s was %s", request.Type, request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"), request.Status),
		Metadata:  map[string]any{"requestId": request.ID},
	}, account.Email)
	if err != nil {
		slog.Warn("leave decision notification failed", "accountId", account.ID, "error", err)
	}
}
