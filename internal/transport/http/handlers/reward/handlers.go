package rewardhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"kpidash/internal/domain/audit"
	"kpidash/internal/domain/auth"
	"kpidash/internal/domain/notifications"
	"kpidash/internal/domain/reward"
	"kpidash/internal/platform/jobs"
	"kpidash/internal/platform/metrics"
	"kpidash/internal/requestctx"
	"kpidash/internal/transport/http/api"
	"kpidash/internal/transport/http/middleware"
	"kpidash/internal/transport/http/shared"
)

type Handler struct {
	Service      *reward.Service
	Jobs         *jobs.Service
	Audit        *audit.Service
	Notifier     *notifications.Service
	Metrics      *metrics.Collector
	StatementDir string
}

func NewHandler(service *reward.Service, jobRunner *jobs.Service, auditor *audit.Service, notifier *notifications.Service, collector *metrics.Collector, statementDir string) *Handler {
	return &Handler{
		Service:      service,
		Jobs:         jobRunner,
		Audit:        auditor,
		Notifier:     notifier,
		Metrics:      collector,
		StatementDir: statementDir,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rewards", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/calculate", h.HandleCalculate)
		r.Get("/results", h.HandleListResults)
		r.Get("/results/summary", h.HandleSummary)
		r.Get("/results/export", h.HandleExportCSV)
		r.Get("/results/{id}", h.HandleGetResult)
		r.Get("/results/{id}/statement", h.HandleStatementPDF)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/results/{id}/approve", h.HandleApprove)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/results/{id}/pay", h.HandleMarkPaid)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/dedupe", h.HandleDedupe)
	})
}

type calculateRequest struct {
	Period string `json:"period"`
}

func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var payload calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("period", payload.Period, "period is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	actor := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actor = user.Name
	}

	details, err := h.Jobs.RunNow(r.Context(), jobs.JobRewardCalculation, func(ctx context.Context) (any, error) {
		return h.Service.CalculateAllForPeriod(ctx, payload.Period, actor)
	})
	summary, _ := details.(reward.RunSummary)
	if err != nil {
		api.FailWithDetails(w, http.StatusInternalServerError, "calculation_error", err.Error(),
			summary, requestctx.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordCalculationRun()
	}
	h.recordAudit(r, "reward.calculate", "period", payload.Period, nil, summary)

	api.Success(w, summary, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period := query.Get("period")
	if period == "" {
		period = reward.PeriodAll
	}

	results, err := h.Service.ResultsForPeriod(r.Context(), period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to list results", requestctx.GetRequestID(r.Context()))
		return
	}

	filtered := reward.FilterResults(results, reward.Filter{
		Search:     query.Get("search"),
		Department: query.Get("department"),
		EmployeeID: query.Get("employeeId"),
	})

	page := shared.ParsePagination(r, 50, 200)
	total := len(filtered)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)

	api.Success(w, map[string]any{
		"items": filtered[start:end],
		"total": total,
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period := query.Get("period")
	if period == "" {
		period = reward.PeriodAll
	}

	results, err := h.Service.ResultsForPeriod(r.Context(), period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to load results", requestctx.GetRequestID(r.Context()))
		return
	}

	filtered := reward.FilterResults(results, reward.Filter{
		Search:     query.Get("search"),
		Department: query.Get("department"),
		EmployeeID: query.Get("employeeId"),
	})
	api.Success(w, reward.Summarize(filtered), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "result not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, result, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	approver := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		approver = user.Name
	}

	result, err := h.Service.Approve(r.Context(), id, approver)
	if err != nil {
		h.failTransition(w, r, err, "failed to approve result")
		return
	}

	h.recordAudit(r, "reward.approve", "calculation_result", id, nil, result)
	h.notifyResult(r, result, notifications.TypeResultApproved, "Reward approved",
		"Your reward for "+result.KpiName+" ("+result.Period+") was approved.")

	api.Success(w, result, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Service.MarkPaid(r.Context(), id)
	if err != nil {
		h.failTransition(w, r, err, "failed to mark result paid")
		return
	}

	h.recordAudit(r, "reward.pay", "calculation_result", id, nil, result)
	h.notifyResult(r, result, notifications.TypeResultPaid, "Reward paid",
		"Your reward for "+result.KpiName+" ("+result.Period+") was paid out.")

	api.Success(w, result, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleDedupe(w http.ResponseWriter, r *http.Request) {
	details, err := h.Jobs.RunNow(r.Context(), jobs.JobDedupeSweep, func(ctx context.Context) (any, error) {
		deleted, err := h.Service.RemoveDuplicates(ctx)
		return map[string]any{"deleted": deleted}, err
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dedupe_error", "failed to remove duplicates", requestctx.GetRequestID(r.Context()))
		return
	}

	h.recordAudit(r, "reward.dedupe", "calculation_result", "", nil, details)
	api.Success(w, details, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	period := query.Get("period")
	if period == "" {
		period = reward.PeriodAll
	}

	results, err := h.Service.ResultsForPeriod(r.Context(), period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to load results", requestctx.GetRequestID(r.Context()))
		return
	}

	filtered := reward.FilterResults(results, reward.Filter{
		Search:     query.Get("search"),
		Department: query.Get("department"),
		EmployeeID: query.Get("employeeId"),
	})

	csv, err := reward.ExportCSV(filtered)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_error", "failed to build export", requestctx.GetRequestID(r.Context()))
		return
	}

	if h.Metrics != nil {
		h.Metrics.RecordExport()
	}

	filename := "reward-results-" + period + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write([]byte(csv)); err != nil {
		slog.Warn("export write failed", "err", err)
	}
}

func (h *Handler) HandleStatementPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path, err := h.Service.StatementPDF(r.Context(), id, h.StatementDir)
	if err != nil {
		if errors.Is(err, reward.ErrResultNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "result not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "statement_error", "failed to build statement", requestctx.GetRequestID(r.Context()))
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			slog.Warn("statement cleanup failed", "path", path, "err", err)
		}
	}()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) failTransition(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, reward.ErrResultNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "result not found", requestctx.GetRequestID(r.Context()))
	case errors.Is(err, reward.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), requestctx.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "update_error", fallback, requestctx.GetRequestID(r.Context()))
	}
}

func (h *Handler) recordAudit(r *http.Request, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	actorID := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		actorID = user.UserID
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, requestctx.GetRequestID(r.Context()), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (h *Handler) notifyResult(r *http.Request, result reward.CalculationResult, notificationType, title, body string) {
	if h.Notifier == nil || result.EmployeeID == "" {
		return
	}
	if err := h.Notifier.Create(r.Context(), result.EmployeeID, notificationType, title, body); err != nil {
		slog.Warn("result notification failed", "resultId", result.ID, "err", err)
	}
}
