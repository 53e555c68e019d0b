// File: internal/services/tenant_services/ledger_service_test.go
package tenant_services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/multisolucioneslv/erp-assistant/internal/domain"
	"github.com/multisolucioneslv/erp-assistant/internal/repository/tenant"
	"github.com/multisolucioneslv/erp-assistant/internal/services/assistant"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Tenant{}, &domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newLedger(t *testing.T, db *gorm.DB) (*LedgerService, tenant.TenantRepository) {
	t.Helper()
	repo := tenant.NewTenantRepository(db)
	ledger, err := NewLedgerService(repo, noopLogger{})
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	return ledger, repo
}

func seedTenant(t *testing.T, repo tenant.TenantRepository, mutate func(*domain.Tenant)) *domain.Tenant {
	t.Helper()
	tn := &domain.Tenant{Name: "Acme", AIEnabled: true}
	if mutate != nil {
		mutate(tn)
	}
	created, err := repo.Create(context.Background(), tn)
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return created
}

func TestRecordQueryAdvancesCounters(t *testing.T) {
	db := openTestDB(t)
	ledger, repo := newLedger(t, db)
	tn := seedTenant(t, repo, nil)

	for i := 0; i < 3; i++ {
		if err := ledger.RecordQuery(context.Background(), tn.ID, 0.01); err != nil {
			t.Fatalf("RecordQuery: %v", err)
		}
	}

	got, err := repo.FindByID(context.Background(), tn.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.AITotalQueries != 3 {
		t.Errorf("total queries = %d, want 3", got.AITotalQueries)
	}
	if got.AIMonthlyUsage < 0.029 || got.AIMonthlyUsage > 0.031 {
		t.Errorf("monthly usage = %v, want ~0.03", got.AIMonthlyUsage)
	}
	if got.AILastUsedAt == nil {
		t.Error("last used timestamp not set")
	}
}

func TestRecordQueryZeroCostStillCounts(t *testing.T) {
	db := openTestDB(t)
	ledger, repo := newLedger(t, db)
	tn := seedTenant(t, repo, nil)

	if err := ledger.RecordQuery(context.Background(), tn.ID, 0); err != nil {
		t.Fatalf("RecordQuery: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), tn.ID)
	if got.AITotalQueries != 1 {
		t.Errorf("total queries = %d, want 1", got.AITotalQueries)
	}
	if got.AIMonthlyUsage != 0 {
		t.Errorf("monthly usage = %v, want 0", got.AIMonthlyUsage)
	}
}

func TestRecordQueryUnknownTenant(t *testing.T) {
	db := openTestDB(t)
	ledger, _ := newLedger(t, db)

	err := ledger.RecordQuery(context.Background(), 999, 0.01)
	if err == nil {
		t.Fatal("expected error for unknown tenant")
	}
	if assistant.TypeOf(err) != assistant.ErrTypeNotFound {
		t.Errorf("error type = %v, want NOT_FOUND", assistant.TypeOf(err))
	}
}

func TestUsagePercentage(t *testing.T) {
	db := openTestDB(t)
	ledger, repo := newLedger(t, db)

	budget := 100.0
	zero := 0.0
	cases := []struct {
		name   string
		mutate func(*domain.Tenant)
		want   float64
	}{
		{"no budget", func(tn *domain.Tenant) { tn.AIMonthlyUsage = 50 }, 0},
		{"zero budget", func(tn *domain.Tenant) { tn.AIMonthlyBudget = &zero; tn.AIMonthlyUsage = 50 }, 0},
		{"quarter used", func(tn *domain.Tenant) { tn.AIMonthlyBudget = &budget; tn.AIMonthlyUsage = 25 }, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tn := seedTenant(t, repo, tc.mutate)
			got, err := ledger.UsagePercentage(context.Background(), tn.ID)
			if err != nil {
				t.Fatalf("UsagePercentage: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResetMonthlyUsagePreservesLifetimeCounter(t *testing.T) {
	db := openTestDB(t)
	ledger, repo := newLedger(t, db)
	tn := seedTenant(t, repo, func(tn *domain.Tenant) {
		tn.AIMonthlyUsage = 12.5
		tn.AITotalQueries = 40
	})

	if err := ledger.ResetMonthlyUsage(context.Background(), tn.ID); err != nil {
		t.Fatalf("ResetMonthlyUsage: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), tn.ID)
	if got.AIMonthlyUsage != 0 {
		t.Errorf("monthly usage = %v, want 0", got.AIMonthlyUsage)
	}
	if got.AITotalQueries != 40 {
		t.Errorf("total queries = %d, want 40 (lifetime counter never resets)", got.AITotalQueries)
	}
	if got.AIUsageResetAt == nil || !got.AIUsageResetAt.After(time.Now()) {
		t.Errorf("next reset = %v, want a future date", got.AIUsageResetAt)
	}
}

func TestToggleSeedsResetDateOnFirstEnable(t *testing.T) {
	db := openTestDB(t)
	ledger, repo := newLedger(t, db)
	tn := seedTenant(t, repo, func(tn *domain.Tenant) { tn.AIEnabled = false })

	if err := ledger.Toggle(context.Background(), tn.ID, true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), tn.ID)
	if !got.AIEnabled {
		t.Error("tenant should be enabled")
	}
	if got.AIUsageResetAt == nil {
		t.Fatal("first enable should seed the reset date")
	}
	firstReset := *got.AIUsageResetAt

	// Disabling and re-enabling keeps the existing cycle anchor.
	if err := ledger.Toggle(context.Background(), tn.ID, false); err != nil {
		t.Fatalf("Toggle off: %v", err)
	}
	if err := ledger.Toggle(context.Background(), tn.ID, true); err != nil {
		t.Fatalf("Toggle on: %v", err)
	}
	got, _ = repo.FindByID(context.Background(), tn.ID)
	if got.AIUsageResetAt == nil || !got.AIUsageResetAt.Equal(firstReset) {
		t.Errorf("reset date changed on re-enable: %v vs %v", got.AIUsageResetAt, firstReset)
	}
}

func TestNextResetDateIsStartOfDay(t *testing.T) {
	now := time.Date(2026, 3, 15, 17, 42, 3, 0, time.UTC)
	next := nextResetDate(now)
	want := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("nextResetDate = %v, want %v", next, want)
	}
}
