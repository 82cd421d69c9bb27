package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffhub/internal/domain/notifications"
	"staffhub/internal/transport/http/api"
	"staffhub/internal/transport/http/middleware"
	"staffhub/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/read-all", h.handleMarkAllRead)
		r.Post("/{notificationID}/read", h.handleMarkRead)
		r.Delete("/{notificationID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	items, unread, err := h.Service.List(r.Context(), identity.AccountID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification list failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{
		"notifications": items,
		"unread":        unread,
	})
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	found, err := h.Service.MarkRead(r.Context(), identity.AccountID, chi.URLParam(r, "notificationID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification update failed", reqID)
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, "notification not found", reqID)
		return
	}
	api.Message(w, http.StatusOK, reqID, "notification marked read")
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	count, err := h.Service.MarkAllRead(r.Context(), identity.AccountID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification update failed", reqID)
		return
	}
	api.Success(w, http.StatusOK, reqID, map[string]any{"updated": count})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "authentication required", reqID)
		return
	}

	found, err := h.Service.Delete(r.Context(), identity.AccountID, chi.URLParam(r, "notificationID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notification delete failed", reqID)
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, "notification not found", reqID)
		return
	}
	api.Message(w, http.StatusOK, reqID, "notification deleted")
}
