package directoryhandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpidash/internal/domain/auth"
	"kpidash/internal/domain/directory"
	"kpidash/internal/requestctx"
	"kpidash/internal/transport/http/api"
	"kpidash/internal/transport/http/middleware"
	"kpidash/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
}

func NewHandler(store *directory.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.HandleListDepartments)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/", h.HandleCreateDepartment)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.HandleListEmployees)
		r.Get("/{id}", h.HandleGetEmployee)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Post("/", h.HandleCreateEmployee)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleManager)).Put("/{id}", h.HandleUpdateEmployee)
	})
}

func (h *Handler) HandleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to list departments", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, requestctx.GetRequestID(r.Context()))
}

type departmentRequest struct {
	Name string `json:"name"`
}

func (h *Handler) HandleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "department name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateDepartment(r.Context(), payload.Name)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_error", "failed to create department", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_error", "failed to list employees", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employee, requestctx.GetRequestID(r.Context()))
}

type employeeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"departmentId"`
	Role         string `json:"role"`
	Status       string `json:"status"`
}

func (h *Handler) HandleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "employee name is required")
	v.Required("email", payload.Email, "employee email is required")
	v.Enum("status", payload.Status, []string{"active", "inactive"}, "status must be active or inactive")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}
	if payload.Status == "" {
		payload.Status = "active"
	}

	id, err := h.Store.CreateEmployee(r.Context(), directory.Employee{
		Name:         payload.Name,
		Email:        payload.Email,
		DepartmentID: payload.DepartmentID,
		Role:         payload.Role,
		Status:       payload.Status,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_error", "failed to create employee", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "employee name is required")
	v.Enum("status", payload.Status, []string{"active", "inactive"}, "status must be active or inactive")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateEmployee(r.Context(), id, directory.Employee{
		Name:         payload.Name,
		Email:        payload.Email,
		DepartmentID: payload.DepartmentID,
		Role:         payload.Role,
		Status:       payload.Status,
	}); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update employee", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"id": id}, requestctx.GetRequestID(r.Context()))
}
