package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/auth"
	"staffhub/internal/domain/employee"
	"staffhub/internal/domain/notifications"
	"staffhub/internal/domain/payroll"
	"staffhub/internal/platform/querier"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service  *payroll.Service
	Profiles *employee.Store
	Notify   *notifications.Service
	Accounts auth.StoreAPI
	Audit    *audit.Service
}

func NewHandler(service *payroll.Service, profiles *employee.Store, notify *notifications.Service, accounts auth.StoreAPI, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Profiles: profiles, Notify: notify, Accounts: accounts, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/me", h.handleSelfHistory)
		r.Get("/{recordID}/payslip", h.handlePayslip)
		r.With(middleware.RequireElevated).Get("/", h.handleList)
		r.With(middleware.RequireElevated).Post("/", h.handleCreate)
		r.With(middleware.RequireElevated).Post("/generate", h.handleGenerate)
		r.With(middleware.RequireElevated).Put("/{recordID}", h.handleUpdate)
		r.With(middleware.RequireElevated).Delete("/{recordID}", h.handleDelete)
	})
}

func (h *Handler) handleSelfHistory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	page := shared.ParsePagination(r, 24, 120)
	records, total, err := h.Service.History(r.Context(), identity.EmployeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll history failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"payroll": records,
		"total":   total,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	month := queryInt(r, "month")
	year := queryInt(r, "year")

	records, total, err := h.Service.List(r.Context(), month, year, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll list failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"payroll": records,
		"total":   total,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	var payload payroll.Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	if !payroll.ValidPeriod(payload.Month, payload.Year) {
		v.Add("month", "month and year must form a valid period")
	}
	if v.Reject(w, reqID) {
		return
	}

	record, err := h.Service.Create(r.Context(), payload)
	switch {
	case errors.Is(err, payroll.ErrDuplicate):
		api.Fail(w, http.StatusBadRequest, "payroll record already exists for period", reqID)
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "payroll creation failed", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), identity.AccountID, "payroll.create", "payroll", record.ID, reqID, shared.ClientIP(r), nil, record); err != nil {
		slog.Warn("audit payroll.create failed", "error", err)
	}
	h.notifyEmployee(r, record)
	api.Success(w, http.StatusCreated, reqID, map[string]any{"payroll": record})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	var payload struct {
		Month int `json:"month"`
		Year  int `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	result, err := h.Service.Generate(r.Context(), payload.Month, payload.Year)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidPeriod) {
			api.Fail(w, http.StatusBadRequest, "month and year must form a valid period", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll generation failed", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), identity.AccountID, "payroll.generate", "payroll", fmt.Sprintf("%d-%02d", payload.Year, payload.Month), reqID, shared.ClientIP(r), nil, result); err != nil {
		slog.Warn("audit payroll.generate failed", "error", err)
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"result": result})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	recordID := chi.URLParam(r, "recordID")

	before, err := h.Service.Record(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "payroll record not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll lookup failed", reqID)
		return
	}

	var payload payroll.Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}
	payload.ID = recordID

	record, err := h.Service.Update(r.Context(), payload)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "payroll record not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll update failed", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), identity.AccountID, "payroll.update", "payroll", record.ID, reqID, shared.ClientIP(r), before, record); err != nil {
		slog.Warn("audit payroll.update failed", "error", err)
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"payroll": record})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	recordID := chi.URLParam(r, "recordID")

	before, err := h.Service.Record(r.Context(), recordID)
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "payroll record not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll lookup failed", reqID)
		return
	}

	if err := h.Service.Delete(r.Context(), recordID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "payroll delete failed", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), identity.AccountID, "payroll.delete", "payroll", recordID, reqID, shared.ClientIP(r), before, nil); err != nil {
		slog.Warn("audit payroll.delete failed", "error", err)
	}
	api.Message(w, http.StatusOK, reqID, "payroll record deleted")
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	record, err := h.Service.Record(r.Context(), chi.URLParam(r, "recordID"))
	if err != nil {
		if errors.Is(err, payroll.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "payroll record not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payroll lookup failed", reqID)
		return
	}
	if record.EmployeeID != identity.EmployeeID && !identity.Role.Elevated() {
		api.Fail(w, http.StatusForbidden, "insufficient permissions", reqID)
		return
	}

	name := record.EmployeeID
	if profile, err := h.Profiles.ProfileByEmployeeID(r.Context(), record.EmployeeID); err == nil {
		name = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	} else if !querier.IsNotFound(err) {
		slog.Warn("payslip profile lookup failed", "employeeId", record.EmployeeID, "error", err)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%d-%02d.pdf", record.Year, record.Month))
	if err := payroll.RenderPayslip(w, record, name); err != nil {
		slog.Warn("payslip render failed", "recordId", record.ID, "error", err)
	}
}

func (h *Handler) notifyEmployee(r *http.Request, record payroll.Record) {
	account, err := h.Accounts.AccountByEmployeeID(r.Context(), record.EmployeeID)
	if err != nil {
		slog.Warn("employee account lookup failed", "employeeId", record.EmployeeID, "error", err)
		return
	}
	_, err = h.Notify.Notify(r.Context(), notifications.Notification{
		AccountID: account.ID,
		Type:      notifications.TypePayrollCreated,
		Title:     "Payslip available",
		Message:   fmt.Sprintf("Your payslip for %d-%02d is ready", record.Year, record.Month),
		Metadata:  map[string]any{"recordId": record.ID},
	}, account.Email)
	if err != nil {
		slog.Warn("payroll notification failed", "accountId", account.ID, "error", err)
	}
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
