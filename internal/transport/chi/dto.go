package chi

import (
	"time"

	"github.com/oapi-codegen/runtime/types"

	"github.com/cloudbill/admind/internal/domain"
	domcust "github.com/cloudbill/admind/internal/domain/customer"
	"github.com/cloudbill/admind/internal/domain/customer/patch"
	"github.com/cloudbill/admind/internal/usecase/dashboard"
	"github.com/cloudbill/admind/internal/usecase/gateway"
)

// errorCode enumerates machine-readable error identifiers.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeNotFound         errorCode = "customer_not_found"
	codeAlreadyExists    errorCode = "customer_already_exists"
	codeTransient        errorCode = "transient_error"
	codeInternal         errorCode = "internal_error"
)

// fieldViolation is one violated constraint in a validation error response.
type fieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// errorResponse is the uniform error payload. Violations is present only
// for validation failures and always carries the complete list.
type errorResponse struct {
	Code       errorCode        `json:"code"`
	Message    string           `json:"message"`
	Violations []fieldViolation `json:"violations,omitempty"`
}

// budgetResponse mirrors the budget thresholds on the wire.
type budgetResponse struct {
	SoftBudget float64  `json:"soft_budget"`
	HardBudget float64  `json:"hard_budget"`
	MaxBudget  *float64 `json:"max_budget,omitempty"`
}

// customerResponse is the wire shape of a customer record.
type customerResponse struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	OrganizationID string          `json:"organization_id,omitempty"`
	Email          types.Email     `json:"email"`
	APIBase        string          `json:"api_base"`
	Notes          string          `json:"notes,omitempty"`
	Blocked        bool            `json:"blocked"`
	Budget         *budgetResponse `json:"budget,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// customerListResponse wraps the customer list.
type customerListResponse struct {
	Items []customerResponse `json:"items"`
	Total int                `json:"total"`
}

// createBudgetRequest mirrors the create-budget form. The customer record is
// created implicitly alongside its first budget. Email arrives as a plain
// string so a bad address surfaces as a field violation next to the other
// form errors instead of killing the decode.
type createBudgetRequest struct {
	CustomerName   string   `json:"customer_name"`
	Email          string   `json:"email"`
	OrganizationID string   `json:"organization_id"`
	SoftBudget     *float64 `json:"soft_budget"`
	HardBudget     *float64 `json:"hard_budget"`
	MaxBudget      *float64 `json:"max_budget"`
	APIBase        string   `json:"api_base"`
	Notes          string   `json:"notes"`
}

// updateCustomerRequest is a partial update; absent fields stay unchanged.
// Identity fields are not patchable.
type updateCustomerRequest struct {
	CustomerName   *string  `json:"customer_name"`
	OrganizationID *string  `json:"organization_id"`
	Email          *string  `json:"email"`
	APIBase        *string  `json:"api_base"`
	Notes          *string  `json:"notes"`
	Blocked        *bool    `json:"blocked"`
	SoftBudget     *float64 `json:"soft_budget"`
	HardBudget     *float64 `json:"hard_budget"`
	MaxBudget      *float64 `json:"max_budget"`
}

// dashboardResponse is the admin landing summary.
type dashboardResponse struct {
	TotalCustomers   int     `json:"total_customers"`
	ActiveBudgets    int     `json:"active_budgets"`
	BlockedCustomers int     `json:"blocked_customers"`
	CommittedHard    float64 `json:"committed_hard_budget"`
}

// gatewayStatusResponse reports an API-base reachability check.
type gatewayStatusResponse struct {
	APIBase   string `json:"api_base"`
	Reachable bool   `json:"reachable"`
	LatencyMS int64  `json:"latency_ms,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func customerToResponse(c domcust.Customer) customerResponse {
	resp := customerResponse{
		ID:             c.ID(),
		CustomerID:     c.CustomerID(),
		CustomerName:   c.Name(),
		OrganizationID: c.OrganizationID(),
		Email:          types.Email(c.Email()),
		APIBase:        c.APIBase(),
		Notes:          c.Notes(),
		Blocked:        c.Blocked(),
		CreatedAt:      time.UnixMilli(c.CreatedAt()).UTC(),
		UpdatedAt:      time.UnixMilli(c.UpdatedAt()).UTC(),
	}
	if b, ok := c.Budget(); ok {
		resp.Budget = &budgetResponse{
			SoftBudget: b.Soft(),
			HardBudget: b.Hard(),
			MaxBudget:  b.Max(),
		}
	}
	return resp
}

func draftFromCreate(req createBudgetRequest) domcust.Draft {
	return domcust.Draft{
		Name:           req.CustomerName,
		Email:          req.Email,
		OrganizationID: req.OrganizationID,
		APIBase:        req.APIBase,
		Notes:          req.Notes,
		SoftBudget:     req.SoftBudget,
		HardBudget:     req.HardBudget,
		MaxBudget:      req.MaxBudget,
	}
}

func patchFromUpdate(req updateCustomerRequest) patch.Patch {
	return patch.Patch{
		Name:           req.CustomerName,
		OrganizationID: req.OrganizationID,
		Email:          req.Email,
		APIBase:        req.APIBase,
		Notes:          req.Notes,
		Blocked:        req.Blocked,
		SoftBudget:     req.SoftBudget,
		HardBudget:     req.HardBudget,
		MaxBudget:      req.MaxBudget,
	}
}

func violationsToResponse(ve *domain.ValidationError) []fieldViolation {
	out := make([]fieldViolation, len(ve.Violations))
	for i, v := range ve.Violations {
		out[i] = fieldViolation{Field: v.Field, Reason: v.Reason}
	}
	return out
}

func summaryToResponse(s dashboard.Summary) dashboardResponse {
	return dashboardResponse{
		TotalCustomers:   s.TotalCustomers,
		ActiveBudgets:    s.ActiveBudgets,
		BlockedCustomers: s.BlockedCustomers,
		CommittedHard:    s.CommittedHard,
	}
}

func gatewayStatusToResponse(st gateway.Status) gatewayStatusResponse {
	return gatewayStatusResponse{
		APIBase:   st.APIBase,
		Reachable: st.Reachable,
		LatencyMS: st.Latency.Milliseconds(),
		Reason:    st.Reason,
	}
}
