package notificationshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpidash/internal/domain/notifications"
	"kpidash/internal/requestctx"
	"kpidash/internal/transport/http/api"
	"kpidash/internal/transport/http/middleware"
	"kpidash/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/{id}/read", h.HandleMarkRead)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Success(w, []notifications.Notification{}, requestctx.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 20, 100)
	items, err := h.Service.List(r.Context(), user.EmployeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to list notifications", requestctx.GetRequestID(r.Context()))
		return
	}

	unread, err := h.Service.CountUnread(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to count notifications", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"items":  items,
		"unread": unread,
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user.EmployeeID == "" {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Service.MarkRead(r.Context(), user.EmployeeID, id); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to mark notification read", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}
