package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"nidhi/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup by ID matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction stores a transaction. The record is normalized first so a
// one-month proration never reaches disk.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	tx = tx.Normalized()
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, tx_date, clock_time, kind, category, excluded_from_budget, prorate_months, budget_type_override)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Amount.String(), tx.Date.String(), tx.ClockTime, string(tx.Kind),
		tx.Category, boolToInt(tx.ExcludedFromBudget), tx.ProrateMonths, string(tx.BudgetTypeOverride))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"kind", tx.Kind,
		"amount", tx.Amount.String(),
		"date", tx.Date.String())
	return nil
}

// UpdateTransaction replaces an existing transaction, normalizing as on create.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	tx = tx.Normalized()
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, tx_date = ?, clock_time = ?, kind = ?, category = ?,
		    excluded_from_budget = ?, prorate_months = ?, budget_type_override = ?,
		    updated_at = datetime('now')
		WHERE id = ?`,
		tx.Amount.String(), tx.Date.String(), tx.ClockTime, string(tx.Kind), tx.Category,
		boolToInt(tx.ExcludedFromBudget), tx.ProrateMonths, string(tx.BudgetTypeOverride), tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount, tx_date, clock_time, kind, category, excluded_from_budget, prorate_months, budget_type_override
		FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns every transaction ordered by date, then clock time,
// then ID, which is the stable order the aggregation layer relies on.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, tx_date, clock_time, kind, category, excluded_from_budget, prorate_months, budget_type_override
		FROM transactions
		ORDER BY tx_date, clock_time, id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// GetSnapshot returns the singleton asset snapshot with its investments.
// A never-saved snapshot is all zeros, not an error.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context) (core.AssetSnapshot, error) {
	var snap core.AssetSnapshot
	var bank, fd, mf, ppf, epf, income string

	err := r.db.QueryRowContext(ctx, `
		SELECT bank_savings, fixed_deposits, mutual_funds, ppf, epf, monthly_income
		FROM asset_snapshot WHERE id = 1`).
		Scan(&bank, &fd, &mf, &ppf, &epf, &income)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fall through with zero values
	case err != nil:
		return snap, fmt.Errorf("get asset snapshot: %w", err)
	default:
		if snap.BankSavings, err = parseDecimal(bank); err != nil {
			return snap, err
		}
		if snap.FixedDeposits, err = parseDecimal(fd); err != nil {
			return snap, err
		}
		if snap.MutualFunds, err = parseDecimal(mf); err != nil {
			return snap, err
		}
		if snap.PPF, err = parseDecimal(ppf); err != nil {
			return snap, err
		}
		if snap.EPF, err = parseDecimal(epf); err != nil {
			return snap, err
		}
		if snap.MonthlyIncome, err = parseDecimal(income); err != nil {
			return snap, err
		}
	}

	investments, err := r.ListInvestments(ctx)
	if err != nil {
		return snap, err
	}
	snap.Investments = investments
	return snap, nil
}

// SaveSnapshot upserts the singleton asset snapshot. Investments are managed
// through their own operations and ignored here.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap core.AssetSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO asset_snapshot (id, bank_savings, fixed_deposits, mutual_funds, ppf, epf, monthly_income, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			bank_savings = excluded.bank_savings,
			fixed_deposits = excluded.fixed_deposits,
			mutual_funds = excluded.mutual_funds,
			ppf = excluded.ppf,
			epf = excluded.epf,
			monthly_income = excluded.monthly_income,
			updated_at = datetime('now')`,
		snap.BankSavings.String(), snap.FixedDeposits.String(), snap.MutualFunds.String(),
		snap.PPF.String(), snap.EPF.String(), snap.MonthlyIncome.String())
	if err != nil {
		return fmt.Errorf("save asset snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Asset snapshot saved")
	return nil
}

func (r *SQLiteRepository) AddInvestment(ctx context.Context, inv core.Investment) error {
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("validate investment: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investments (id, scheme_code, amount, purchase_date, nav_at_purchase)
		VALUES (?, ?, ?, ?, ?)`,
		inv.ID, inv.Scheme, inv.Amount.String(), inv.Date.String(), inv.NAVAtPurchase.String())
	if err != nil {
		return fmt.Errorf("insert investment: %w", err)
	}

	slog.InfoContext(ctx, "Investment saved",
		"id", inv.ID,
		"scheme", inv.Scheme,
		"amount", inv.Amount.String())
	return nil
}

func (r *SQLiteRepository) ListInvestments(ctx context.Context) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scheme_code, amount, purchase_date, nav_at_purchase
		FROM investments
		ORDER BY purchase_date, id`)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []core.Investment
	for rows.Next() {
		var inv core.Investment
		var amount, date, nav string
		if err := rows.Scan(&inv.ID, &inv.Scheme, &amount, &date, &nav); err != nil {
			return nil, fmt.Errorf("scan investment: %w", err)
		}
		if inv.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		if inv.NAVAtPurchase, err = parseDecimal(nav); err != nil {
			return nil, err
		}
		if inv.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse investment date %q: %w", date, err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	return requireRow(res)
}

// UpsertNAVHistory merges fetched history points for one scheme. Existing
// dates are overwritten so a corrected NAV wins over a provisional one.
func (r *SQLiteRepository) UpsertNAVHistory(ctx context.Context, scheme string, points []core.NAVPoint) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin nav upsert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO nav_history (scheme_code, nav_date, nav, fetched_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(scheme_code, nav_date) DO UPDATE SET
			nav = excluded.nav,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("prepare nav upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, scheme, p.Date.String(), p.NAV); err != nil {
			return fmt.Errorf("upsert nav point %s/%s: %w", scheme, p.Date, err)
		}
	}
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit nav upsert: %w", err)
	}

	slog.InfoContext(ctx, "NAV history updated", "scheme", scheme, "points", len(points))
	return nil
}

// GetNAVHistory returns a scheme's history newest first, the order the return
// calculator expects.
func (r *SQLiteRepository) GetNAVHistory(ctx context.Context, scheme string) ([]core.NAVPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT nav_date, nav FROM nav_history
		WHERE scheme_code = ?
		ORDER BY nav_date DESC`, scheme)
	if err != nil {
		return nil, fmt.Errorf("get nav history: %w", err)
	}
	defer rows.Close()

	var out []core.NAVPoint
	for rows.Next() {
		var p core.NAVPoint
		var date string
		if err := rows.Scan(&date, &p.NAV); err != nil {
			return nil, fmt.Errorf("scan nav point: %w", err)
		}
		if p.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse nav date %q: %w", date, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LatestNAVs returns the most recent quote for every scheme with history.
func (r *SQLiteRepository) LatestNAVs(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT scheme_code, nav FROM nav_history
		WHERE (scheme_code, nav_date) IN (
			SELECT scheme_code, MAX(nav_date) FROM nav_history GROUP BY scheme_code
		)`)
	if err != nil {
		return nil, fmt.Errorf("get latest navs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var scheme string
		var nav float64
		if err := rows.Scan(&scheme, &nav); err != nil {
			return nil, fmt.Errorf("scan latest nav: %w", err)
		}
		out[scheme] = nav
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var amount, date, kind, override string
	var excluded int

	err := row.Scan(&tx.ID, &amount, &date, &tx.ClockTime, &kind, &tx.Category,
		&excluded, &tx.ProrateMonths, &override)
	if err != nil {
		return tx, err
	}

	if tx.Amount, err = parseDecimal(amount); err != nil {
		return tx, err
	}
	if tx.Date, err = core.ParseDate(date); err != nil {
		return tx, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	tx.Kind = core.TxKind(kind)
	tx.ExcludedFromBudget = excluded != 0
	tx.BudgetTypeOverride = core.BudgetType(override)
	return tx, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored decimal %q: %w", s, err)
	}
	return d, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
