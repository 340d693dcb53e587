package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"nidhi/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTx(id string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Amount:   decimal.NewFromInt(450),
		Date:     core.NewDate(2025, 3, 14),
		Kind:     core.Expense,
		Category: "Groceries",
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := sampleTx("tx-1")
	tx.ClockTime = "14:30"
	tx.ExcludedFromBudget = true
	tx.ProrateMonths = 6
	tx.BudgetTypeOverride = core.Need

	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "tx-1")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !got.Amount.Equal(tx.Amount) {
		t.Errorf("Amount = %s, want %s", got.Amount, tx.Amount)
	}
	if got.Date.String() != "2025-03-14" {
		t.Errorf("Date = %s, want 2025-03-14", got.Date)
	}
	if got.ClockTime != "14:30" || !got.ExcludedFromBudget || got.ProrateMonths != 6 {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.BudgetTypeOverride != core.Need {
		t.Errorf("BudgetTypeOverride = %s, want need", got.BudgetTypeOverride)
	}
}

func TestCreateTransaction_NormalizesProration(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := sampleTx("tx-1")
	tx.ProrateMonths = 1

	if err := repo.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	got, err := repo.GetTransaction(ctx, "tx-1")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.ProrateMonths != 0 {
		t.Errorf("ProrateMonths = %d, want 0 after normalization", got.ProrateMonths)
	}
}

func TestCreateTransaction_RejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx := sampleTx("tx-1")
	tx.Amount = decimal.NewFromInt(-5)

	if err := repo.CreateTransaction(ctx, tx); !errors.Is(err, core.ErrNegativeAmount) {
		t.Errorf("CreateTransaction = %v, want ErrNegativeAmount", err)
	}
}

func TestUpdateTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateTransaction(ctx, sampleTx("tx-1")); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	updated := sampleTx("tx-1")
	updated.Amount = decimal.NewFromInt(900)
	updated.Category = "Rent"
	if err := repo.UpdateTransaction(ctx, updated); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "tx-1")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(900)) || got.Category != "Rent" {
		t.Errorf("update not applied: %+v", got)
	}

	missing := sampleTx("tx-404")
	if err := repo.UpdateTransaction(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTransaction(missing) = %v, want ErrNotFound", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.CreateTransaction(ctx, sampleTx("tx-1")); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "tx-1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, "tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTransaction after delete = %v, want ErrNotFound", err)
	}
	if err := repo.DeleteTransaction(ctx, "tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteTransaction twice = %v, want ErrNotFound", err)
	}
}

func TestListTransactions_Order(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	later := sampleTx("tx-b")
	later.Date = core.NewDate(2025, 3, 20)
	earlier := sampleTx("tx-a")
	earlier.Date = core.NewDate(2025, 3, 10)
	sameDayLate := sampleTx("tx-c")
	sameDayLate.Date = core.NewDate(2025, 3, 10)
	sameDayLate.ClockTime = "18:00"

	for _, tx := range []core.Transaction{later, sameDayLate, earlier} {
		if err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction(%s): %v", tx.ID, err)
		}
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	var ids []string
	for _, tx := range got {
		ids = append(ids, tx.ID)
	}
	want := []string{"tx-a", "tx-c", "tx-b"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	empty, err := repo.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot(empty): %v", err)
	}
	if !empty.BankSavings.IsZero() || len(empty.Investments) != 0 {
		t.Errorf("empty snapshot should be all zeros: %+v", empty)
	}

	snap := core.AssetSnapshot{
		BankSavings:   decimal.NewFromInt(250000),
		FixedDeposits: decimal.NewFromInt(100000),
		MutualFunds:   decimal.NewFromInt(80000),
		PPF:           decimal.NewFromInt(40000),
		EPF:           decimal.NewFromInt(60000),
		MonthlyIncome: decimal.NewFromInt(90000),
	}
	if err := repo.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	// second save must update, not conflict
	snap.BankSavings = decimal.NewFromInt(300000)
	if err := repo.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot(update): %v", err)
	}

	got, err := repo.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if !got.BankSavings.Equal(decimal.NewFromInt(300000)) {
		t.Errorf("BankSavings = %s, want 300000", got.BankSavings)
	}
	if !got.EPF.Equal(snap.EPF) || !got.MonthlyIncome.Equal(snap.MonthlyIncome) {
		t.Errorf("snapshot round trip lost fields: %+v", got)
	}
}

func TestInvestments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inv := core.Investment{
		ID:            "inv-1",
		Scheme:        "120503",
		Amount:        decimal.NewFromInt(10000),
		Date:          core.NewDate(2024, 6, 1),
		NAVAtPurchase: decimal.NewFromFloat(25.5),
	}
	if err := repo.AddInvestment(ctx, inv); err != nil {
		t.Fatalf("AddInvestment: %v", err)
	}

	snap, err := repo.GetSnapshot(ctx)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if len(snap.Investments) != 1 || snap.Investments[0].Scheme != "120503" {
		t.Fatalf("snapshot investments = %+v", snap.Investments)
	}
	if !snap.Investments[0].NAVAtPurchase.Equal(inv.NAVAtPurchase) {
		t.Errorf("NAVAtPurchase = %s, want %s", snap.Investments[0].NAVAtPurchase, inv.NAVAtPurchase)
	}

	if err := repo.DeleteInvestment(ctx, "inv-1"); err != nil {
		t.Fatalf("DeleteInvestment: %v", err)
	}
	if err := repo.DeleteInvestment(ctx, "inv-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteInvestment twice = %v, want ErrNotFound", err)
	}
}

func TestNAVHistory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	points := []core.NAVPoint{
		{Date: core.NewDate(2025, 8, 25), NAV: 28.10},
		{Date: core.NewDate(2025, 8, 26), NAV: 28.35},
	}
	if err := repo.UpsertNAVHistory(ctx, "120503", points); err != nil {
		t.Fatalf("UpsertNAVHistory: %v", err)
	}

	// re-upsert with a corrected value for an existing date
	if err := repo.UpsertNAVHistory(ctx, "120503", []core.NAVPoint{
		{Date: core.NewDate(2025, 8, 26), NAV: 28.49},
	}); err != nil {
		t.Fatalf("UpsertNAVHistory(correction): %v", err)
	}

	history, err := repo.GetNAVHistory(ctx, "120503")
	if err != nil {
		t.Fatalf("GetNAVHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Date.String() != "2025-08-26" || history[0].NAV != 28.49 {
		t.Errorf("newest point = %+v, want corrected 2025-08-26/28.49", history[0])
	}

	if err := repo.UpsertNAVHistory(ctx, "118989", []core.NAVPoint{
		{Date: core.NewDate(2025, 8, 20), NAV: 95.12},
	}); err != nil {
		t.Fatalf("UpsertNAVHistory(second scheme): %v", err)
	}

	latest, err := repo.LatestNAVs(ctx)
	if err != nil {
		t.Fatalf("LatestNAVs: %v", err)
	}
	if latest["120503"] != 28.49 || latest["118989"] != 95.12 {
		t.Errorf("LatestNAVs = %v", latest)
	}
}
