package reportshandler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpidash/internal/domain/auth"
	"kpidash/internal/domain/kpi"
	"kpidash/internal/domain/reward"
	"kpidash/internal/requestctx"
	"kpidash/internal/transport/http/api"
	"kpidash/internal/transport/http/middleware"
)

type Handler struct {
	DB      *pgxpool.Pool
	Rewards *reward.Service
}

func NewHandler(db *pgxpool.Pool, rewards *reward.Service) *Handler {
	return &Handler{DB: db, Rewards: rewards}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/dashboard/employee", h.handleEmployeeDashboard)
		r.With(middleware.RequireRole(auth.RoleManager, auth.RoleAdmin)).Get("/dashboard/manager", h.handleManagerDashboard)
	})
}

func (h *Handler) handleEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	var assignedRecords int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM kpi_records WHERE employee_id = $1", user.EmployeeID).Scan(&assignedRecords); err != nil {
		log.Printf("record count failed: %v", err)
	}

	var pendingPayout float64
	if err := h.DB.QueryRow(r.Context(), `
    SELECT COALESCE(SUM(net_amount),0) FROM kpi_reward_calculations
    WHERE employee_id = $1 AND status = $2
  `, user.EmployeeID, reward.StatusApproved).Scan(&pendingPayout); err != nil {
		log.Printf("pending payout aggregate failed: %v", err)
	}

	var paidOut float64
	if err := h.DB.QueryRow(r.Context(), `
    SELECT COALESCE(SUM(net_amount),0) FROM kpi_reward_calculations
    WHERE employee_id = $1 AND status = $2
  `, user.EmployeeID, reward.StatusPaid).Scan(&paidOut); err != nil {
		log.Printf("paid aggregate failed: %v", err)
	}

	api.Success(w, map[string]any{
		"assignedRecords": assignedRecords,
		"pendingPayout":   pendingPayout,
		"paidOut":         paidOut,
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleManagerDashboard(w http.ResponseWriter, r *http.Request) {
	var submittedRecords int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM kpi_records WHERE status = $1", kpi.RecordStatusSubmitted).Scan(&submittedRecords); err != nil {
		log.Printf("submitted record count failed: %v", err)
	}

	var awaitingApproval int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM kpi_reward_calculations WHERE status = $1", reward.StatusCalculated).Scan(&awaitingApproval); err != nil {
		log.Printf("awaiting approval count failed: %v", err)
	}

	var awaitingPayout int
	if err := h.DB.QueryRow(r.Context(), "SELECT COUNT(1) FROM kpi_reward_calculations WHERE status = $1", reward.StatusApproved).Scan(&awaitingPayout); err != nil {
		log.Printf("awaiting payout count failed: %v", err)
	}

	results, err := h.Rewards.ResultsForPeriod(r.Context(), reward.PeriodAll)
	if err != nil {
		log.Printf("results load failed: %v", err)
	}
	summary := reward.Summarize(results)

	api.Success(w, map[string]any{
		"submittedRecords": submittedRecords,
		"awaitingApproval": awaitingApproval,
		"awaitingPayout":   awaitingPayout,
		"summary":          summary,
	}, requestctx.GetRequestID(r.Context()))
}
