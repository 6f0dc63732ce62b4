package kpihandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpidash/internal/domain/auth"
	"kpidash/internal/domain/kpi"
	"kpidash/internal/domain/notifications"
	"kpidash/internal/requestctx"
	"kpidash/internal/transport/http/api"
	"kpidash/internal/transport/http/middleware"
	"kpidash/internal/transport/http/shared"
)

type Handler struct {
	Store    *kpi.Store
	Notifier *notifications.Service
}

func NewHandler(store *kpi.Store, notifier *notifications.Service) *Handler {
	return &Handler{Store: store, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpis", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/", h.HandleCreate)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Put("/{id}", h.HandleUpdate)
	})
	r.Route("/kpi-records", func(r chi.Router) {
		r.Get("/", h.HandleListRecords)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/", h.HandleCreateRecord)
		r.Put("/{id}/progress", h.HandleUpdateProgress)
		r.Post("/{id}/submit", h.HandleSubmitRecord)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/{id}/approve", h.HandleApproveRecord)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/{id}/reject", h.HandleRejectRecord)
	})
}

type kpiRequest struct {
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	Weight           float64 `json:"weight"`
	Target           float64 `json:"target"`
	RewardAmount     float64 `json:"rewardAmount"`
	RewardMode       string  `json:"rewardMode"`
	RewardThreshold  float64 `json:"rewardThreshold"`
	PenaltyAmount    float64 `json:"penaltyAmount"`
	PenaltyMode      string  `json:"penaltyMode"`
	PenaltyThreshold float64 `json:"penaltyThreshold"`
	Frequency        string  `json:"frequency"`
}

func (p kpiRequest) toKpi() kpi.Kpi {
	return kpi.Kpi{
		Name:             p.Name,
		Unit:             p.Unit,
		Weight:           p.Weight,
		Target:           p.Target,
		RewardAmount:     p.RewardAmount,
		RewardMode:       p.RewardMode,
		RewardThreshold:  p.RewardThreshold,
		PenaltyAmount:    p.PenaltyAmount,
		PenaltyMode:      p.PenaltyMode,
		PenaltyThreshold: p.PenaltyThreshold,
		Frequency:        p.Frequency,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.Store.ListKpis(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to list kpis", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, kpis, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	definition, err := h.Store.GetKpi(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "kpi not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, definition, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload kpiRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "kpi name is required")
	v.NonNegative("target", payload.Target, "target must not be negative")
	v.Enum("frequency", payload.Frequency, []string{kpi.FrequencyMonthly, kpi.FrequencyQuarterly, kpi.FrequencyYearly}, "frequency must be monthly, quarterly or yearly")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	definition := payload.toKpi()
	if err := kpi.Validate(definition); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_definition", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	id, err := h.Store.CreateKpi(r.Context(), definition)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_error", "failed to create kpi", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var payload kpiRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	definition := payload.toKpi()
	if err := kpi.Validate(definition); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_definition", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateKpi(r.Context(), id, definition); err != nil {
		if errors.Is(err, kpi.ErrKpiNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "kpi not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update kpi", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	employeeID := r.URL.Query().Get("employeeId")
	records, err := h.Store.ListRecords(r.Context(), period, employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to list kpi records", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, requestctx.GetRequestID(r.Context()))
}

type recordRequest struct {
	KpiID      string  `json:"kpiId"`
	EmployeeID string  `json:"employeeId"`
	Period     string  `json:"period"`
	Target     float64 `json:"target"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
}

func (h *Handler) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload recordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("kpiId", payload.KpiID, "kpi id is required")
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("period", payload.Period, "period is required")
	v.NonNegative("target", payload.Target, "target must not be negative")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateRecord(r.Context(), kpi.Record{
		KpiID:      payload.KpiID,
		EmployeeID: payload.EmployeeID,
		Period:     payload.Period,
		Target:     payload.Target,
		Status:     kpi.RecordStatusNotStarted,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_error", "failed to create kpi record", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}

type progressRequest struct {
	Actual float64 `json:"actual"`
}

func (h *Handler) HandleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var payload progressRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.Store.GetRecord(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "kpi record not found", requestctx.GetRequestID(r.Context()))
		return
	}

	status := record.Status
	if status == kpi.RecordStatusNotStarted {
		status = kpi.RecordStatusInProgress
	}
	if status != kpi.RecordStatusInProgress && status != kpi.RecordStatusRejected {
		api.Fail(w, http.StatusConflict, "invalid_state", "record cannot accept progress in its current status", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdateRecordProgress(r.Context(), id, payload.Actual, kpi.RecordStatusInProgress); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update progress", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": id, "status": kpi.RecordStatusInProgress}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleSubmitRecord(w http.ResponseWriter, r *http.Request) {
	h.moveRecord(w, r, kpi.RecordStatusSubmitted, notifications.TypeRecordSubmitted)
}

func (h *Handler) HandleApproveRecord(w http.ResponseWriter, r *http.Request) {
	h.moveRecord(w, r, kpi.RecordStatusApproved, notifications.TypeRecordApproved)
}

func (h *Handler) HandleRejectRecord(w http.ResponseWriter, r *http.Request) {
	h.moveRecord(w, r, kpi.RecordStatusRejected, notifications.TypeRecordRejected)
}

func (h *Handler) moveRecord(w http.ResponseWriter, r *http.Request, to, notificationType string) {
	id := chi.URLParam(r, "id")
	record, err := h.Store.GetRecord(r.Context(), id)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "kpi record not found", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := kpi.CheckRecordMove(record.Status, to); err != nil {
		api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.UpdateRecordStatus(r.Context(), id, to); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update record status", requestctx.GetRequestID(r.Context()))
		return
	}

	if h.Notifier != nil {
		actor := ""
		if user, ok := middleware.GetUser(r.Context()); ok {
			actor = user.Name
		}
		if err := h.Notifier.Create(r.Context(), record.EmployeeID, notificationType,
			"KPI record "+to, "KPI record for period "+record.Period+" moved to "+to+" by "+actor); err != nil {
			slog.Warn("record notification failed", "recordId", id, "err", err)
		}
	}

	api.Success(w, map[string]string{"id": id, "status": to}, requestctx.GetRequestID(r.Context()))
}
