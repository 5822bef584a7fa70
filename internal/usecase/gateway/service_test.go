package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudbill/admind/internal/domain"
	domcust "github.com/cloudbill/admind/internal/domain/customer"
)

type mockGetter struct {
	customer domcust.Customer
	err      error
}

func (m *mockGetter) Get(_ context.Context, _ string) (domcust.Customer, error) {
	return m.customer, m.err
}

type mockProber struct {
	err    error
	probed []string
}

func (m *mockProber) Probe(_ context.Context, apiBase string) error {
	m.probed = append(m.probed, apiBase)
	return m.err
}

func testCustomer(t *testing.T, apiBase string) domcust.Customer {
	t.Helper()
	c, err := domcust.New("1", "cust_001", domcust.Draft{
		Name: "Acme Corporation", Email: "admin@acme.com", APIBase: apiBase,
	}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestCheck_Reachable(t *testing.T) {
	prober := &mockProber{}
	svc := New(&mockGetter{customer: testCustomer(t, "https://gw.example.com")}, prober)

	st, err := svc.Check(context.Background(), "1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !st.Reachable {
		t.Error("expected reachable")
	}
	if st.APIBase != "https://gw.example.com" {
		t.Errorf("api base: %q", st.APIBase)
	}
	if len(prober.probed) != 1 || prober.probed[0] != "https://gw.example.com" {
		t.Errorf("probed: %v", prober.probed)
	}
}

func TestCheck_UnreachableIsNotAnError(t *testing.T) {
	prober := &mockProber{err: errors.New("connection refused")}
	svc := New(&mockGetter{customer: testCustomer(t, "")}, prober)

	st, err := svc.Check(context.Background(), "1")
	if err != nil {
		t.Fatalf("an unreachable gateway must not be an error: %v", err)
	}
	if st.Reachable {
		t.Error("expected unreachable")
	}
	if st.Reason == "" {
		t.Error("expected a failure reason")
	}
}

func TestCheck_DefaultAPIBase(t *testing.T) {
	prober := &mockProber{}
	svc := New(&mockGetter{customer: testCustomer(t, "")}, prober)

	st, err := svc.Check(context.Background(), "1")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if st.APIBase != domcust.DefaultAPIBase {
		t.Errorf("api base: %q", st.APIBase)
	}
}

func TestCheck_MissingCustomer(t *testing.T) {
	svc := New(&mockGetter{err: domain.ErrNotFound}, &mockProber{})

	_, err := svc.Check(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
