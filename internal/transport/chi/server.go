// Package chi exposes the admin console routes over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cloudbill/admind/internal/domain"
	"github.com/cloudbill/admind/internal/logger"
	customeruc "github.com/cloudbill/admind/internal/usecase/customer"
	dashboarduc "github.com/cloudbill/admind/internal/usecase/dashboard"
	gatewayuc "github.com/cloudbill/admind/internal/usecase/gateway"
	healthuc "github.com/cloudbill/admind/internal/usecase/health"
	sessionuc "github.com/cloudbill/admind/internal/usecase/session"
)

// loginPath is where unauthorized callers are sent.
const loginPath = "/login"

// Server wires the use-case services to the route table. Logging goes
// through the request-scoped logger the wide-event middleware puts in the
// context.
type Server struct {
	customers *customeruc.Service
	dashboard *dashboarduc.Service
	gateway   *gatewayuc.Service
	health    *healthuc.Service
	gate      *sessionuc.Gate
}

// NewServer creates the HTTP API server.
func NewServer(
	customers *customeruc.Service,
	dashboard *dashboarduc.Service,
	gateway *gatewayuc.Service,
	health *healthuc.Service,
	gate *sessionuc.Gate,
) *Server {
	return &Server{
		customers: customers,
		dashboard: dashboard,
		gateway:   gateway,
		health:    health,
		gate:      gate,
	}
}

// Routes registers every route on the given router. The /admin subtree sits
// behind the session guard; everything else is public.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/admin", http.StatusFound)
	})
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/admin", func(r chi.Router) {
		r.Use(SessionGuard(s.gate))

		r.Get("/", s.dashboardSummary)
		r.Get("/customers", s.listCustomers)
		r.Get("/customers/{id}", s.getCustomer)
		r.Put("/customers/{id}", s.updateCustomer)
		r.Delete("/customers/{id}", s.deleteCustomer)
		r.Get("/customers/{id}/gateway", s.gatewayStatus)
		r.Post("/budgets", s.createBudget)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "no such route")
	})
}

// login handles POST /login. There is no credential model beyond the flag:
// signing in flips and persists it.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.SignIn(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// logout handles POST /logout.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.SignOut(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dashboardSummary handles GET /admin.
func (s *Server) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.dashboard.Report(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryToResponse(sum))
}

// listCustomers handles GET /admin/customers?q=.
func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("q")

	cs, err := s.customers.List(r.Context(), filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]customerResponse, len(cs))
	for i, c := range cs {
		items[i] = customerToResponse(c)
	}
	writeJSON(w, http.StatusOK, customerListResponse{Items: items, Total: len(items)})
}

// getCustomer handles GET /admin/customers/{id}.
func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := s.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToResponse(c))
}

// createBudget handles POST /admin/budgets: the create-budget form creates
// the customer together with its first budget.
func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c, err := s.customers.Create(r.Context(), draftFromCreate(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/admin/customers/"+c.ID())
	writeJSON(w, http.StatusCreated, customerToResponse(c))
}

// updateCustomer handles PUT /admin/customers/{id}: the detail view's
// edit-mode save. Absent fields are untouched; an empty or absent body
// only refreshes updatedAt.
func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c, err := s.customers.Update(r.Context(), chi.URLParam(r, "id"), patchFromUpdate(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerToResponse(c))
}

// deleteCustomer handles DELETE /admin/customers/{id}. Removal is
// immediate and unrecoverable; a repeat delete is a 404.
func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// gatewayStatus handles GET /admin/customers/{id}/gateway.
func (s *Server) gatewayStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.gateway.Check(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gatewayStatusToResponse(st))
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// handleDomainError maps domain errors to HTTP responses. A cancelled
// request gets no response at all: the caller navigated away and the
// result is discarded, not reported.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// stale in-flight request, suppressed
		return
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, codeTransient, "operation timed out")
	case errors.Is(err, domain.ErrValidation):
		if ve, ok := domain.AsValidation(err); ok {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Code:       codeValidationFailed,
				Message:    domain.ErrValidation.Error(),
				Violations: violationsToResponse(ve),
			})
			return
		}
		writeError(w, http.StatusBadRequest, codeValidationFailed, domain.ErrValidation.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, codeAlreadyExists, domain.ErrAlreadyExists.Error())
	case errors.Is(err, domain.ErrTransient):
		writeError(w, http.StatusServiceUnavailable, codeTransient, domain.ErrTransient.Error())
	default:
		logger.FromContext(r.Context()).Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
