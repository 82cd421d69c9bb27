package profilehandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/audit"
	"staffhub/internal/domain/employee"
	"staffhub/internal/platform/querier"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Store *employee.Store
	Audit *audit.Service
}

func NewHandler(store *employee.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profiles", func(r chi.Router) {
		r.Get("/me", h.handleSelf)
		r.Put("/me", h.handleUpdateSelf)
		r.With(middleware.RequireElevated).Post("/", h.handleCreate)
		r.With(middleware.RequireElevated).Get("/", h.handleList)
		r.Get("/{employeeID}", h.handleDetail)
		r.With(middleware.RequireElevated).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequireElevated).Post("/{employeeID}/documents", h.handleAddDocument)
		r.Get("/{employeeID}/documents", h.handleListDocuments)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())

	var payload employee.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	v.Required("email", payload.Email, "email is required")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.Store.CreateProfile(r.Context(), payload)
	if err != nil {
		if querier.IsUniqueViolation(err) {
			api.Fail(w, http.StatusBadRequest, "profile already exists for employee", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile creation failed", reqID)
		return
	}

	if err := h.Audit.Record(r.Context(), identity.AccountID, "profile.create", "profile", id, reqID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit profile.create failed", "error", err)
	}
	api.Success(w, http.StatusCreated, reqID, map[string]any{"id": id})
}

func (h *Handler) handleSelf(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	profile, err := h.Store.ProfileByEmployeeID(r.Context(), identity.EmployeeID)
	if err != nil {
		if querier.IsNotFound(err) {
			api.Fail(w, http.StatusNotFound, "profile not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile lookup failed", reqID)
		return
	}

	docs, err := h.Store.ListDocuments(r.Context(), identity.EmployeeID)
	if err != nil {
		slog.Warn("documents lookup failed", "employeeId", identity.EmployeeID, "error", err)
	}
	profile.Documents = docs
	api.Success(w, http.StatusOK, reqID, map[string]any{"profile": profile})
}

func (h *Handler) handleUpdateSelf(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	var payload employee.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	before, err := h.Store.ProfileByEmployeeID(r.Context(), identity.EmployeeID)
	if err != nil {
		if querier.IsNotFound(err) {
			api.Fail(w, http.StatusNotFound, "profile not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile lookup failed", reqID)
		return
	}

	// Self-service edits are limited to contact fields; job and salary
	// changes go through the elevated update.
	if err := h.Store.UpdateContact(r.Context(), identity.EmployeeID, payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile update failed", reqID)
		return
	}

	updated, err := h.Store.ProfileByEmployeeID(r.Context(), identity.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile lookup failed", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), identity.AccountID, "profile.update.self", "profile", updated.ID, reqID, shared.ClientIP(r), before, updated); err != nil {
		slog.Warn("audit profile.update.self failed", "error", err)
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"profile": updated})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	search := r.URL.Query().Get("search")

	result, err := h.Store.ListProfiles(r.Context(), search, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile list failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"profiles": result.Profiles,
		"total":    result.Total,
	})
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	profile, err := h.Store.ProfileByEmployeeID(r.Context(), employeeID)
	if err != nil {
		if querier.IsNotFound(err) {
			api.Fail(w, http.StatusNotFound, "profile not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile lookup failed", reqID)
		return
	}

	isSelf := identity.EmployeeID == employeeID
	employee.FilterProfileFields(&profile, identity, isSelf)
	api.Success(w, http.StatusOK, reqID, map[string]any{"profile": profile})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employee.Profile
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	before, err := h.Store.ProfileByEmployeeID(r.Context(), employeeID)
	if err != nil {
		if querier.IsNotFound(err) {
			api.Fail(w, http.StatusNotFound, "profile not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile lookup failed", reqID)
		return
	}

	if err := h.Store.UpdateProfile(r.Context(), employeeID, payload); err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile update failed", reqID)
		return
	}

	updated, err := h.Store.ProfileByEmployeeID(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "profile lookup failed", reqID)
		return
	}
	if err := h.Audit.Record(r.Context(), identity.AccountID, "profile.update", "profile", updated.ID, reqID, shared.ClientIP(r), before, updated); err != nil {
		slog.Warn("audit profile.update failed", "error", err)
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"profile": updated})
}

func (h *Handler) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, _ := middleware.GetIdentity(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	var payload employee.Document
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("fileName", payload.FileName, "file name is required")
	v.Required("url", payload.URL, "url is required")
	if v.Reject(w, reqID) {
		return
	}

	payload.UploadedBy = identity.AccountID
	id, err := h.Store.AddDocument(r.Context(), employeeID, payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document upload failed", reqID)
		return
	}
	api.Success(w, http.StatusCreated, reqID, map[string]any{"id": id})
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID != identity.EmployeeID && !identity.Role.Elevated() {
		api.Fail(w, http.StatusForbidden, "insufficient permissions", reqID)
		return
	}

	docs, err := h.Store.ListDocuments(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document list failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"documents": docs})
}
