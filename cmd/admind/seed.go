package main

import (
	"context"
	"fmt"
	"time"

	domcust "github.com/cloudbill/admind/internal/domain/customer"
	"github.com/cloudbill/admind/internal/domain/customer/budget"
	customerrepo "github.com/cloudbill/admind/internal/repository/customer"
)

// seedDemo loads the canonical demo customers so a fresh instance has
// something to show. Ids are fixed to keep demo links stable.
func seedDemo(ctx context.Context, repo *customerrepo.Repo) error {
	createdAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC).UnixMilli()
	updatedAt := time.Date(2024, 3, 20, 14, 30, 0, 0, time.UTC).UnixMilli()

	maxAcme := 2000.0
	acmeBudget := budget.Reconstruct(1000, 1500, &maxAcme)
	techstartBudget := budget.Reconstruct(500, 750, nil)

	seeds := []domcust.Customer{
		domcust.Reconstruct(
			"1", "cust_001", "Acme Corporation", "org_001", "admin@acme.com",
			domcust.DefaultAPIBase, "", false, &acmeBudget, createdAt, updatedAt,
		),
		domcust.Reconstruct(
			"2", "cust_002", "TechStart Inc", "org_002", "contact@techstart.com",
			domcust.DefaultAPIBase, "", false, &techstartBudget, createdAt, updatedAt,
		),
		domcust.Reconstruct(
			"3", "cust_003", "Global Solutions", "org_003", "info@globalsolutions.com",
			domcust.DefaultAPIBase, "", true, nil, createdAt, updatedAt,
		),
	}

	for _, c := range seeds {
		if err := repo.Create(ctx, c); err != nil {
			return fmt.Errorf("seed %s: %w", c.Name(), err)
		}
	}
	return nil
}
