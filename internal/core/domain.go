package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TxKind = "expense"
	Income  TxKind = "income"
)

const (
	Need BudgetType = "need"
	Want BudgetType = "want"
)

// Uncategorized is the reserved bucket for transactions without a category.
const Uncategorized = "Uncategorized"

// CategoryInvestments marks money moved into investments. It is treated as
// savings, not consumption, by the savings estimator.
const CategoryInvestments = "Investments"

type (
	TxKind     string
	BudgetType string

	// Date is a calendar date with no time zone semantics. The wrapped
	// time.Time is always midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is the atomic money event. Amounts are decimals to keep
	// aggregation free of binary-float drift.
	Transaction struct {
		ID                 string
		Amount             decimal.Decimal
		Date               Date
		ClockTime          string // optional "15:04", used only for same-day ordering
		Kind               TxKind
		Category           string // empty means uncategorized
		ExcludedFromBudget bool
		ProrateMonths      int        // 0 means no proration; >= 2 spreads across months
		BudgetTypeOverride BudgetType // empty means fall back to the classification table
	}

	// AssetSnapshot is the single per-user record of held assets.
	// Absent fields are zero decimals, which aggregate as zero.
	AssetSnapshot struct {
		BankSavings   decimal.Decimal
		FixedDeposits decimal.Decimal
		MutualFunds   decimal.Decimal
		PPF           decimal.Decimal
		EPF           decimal.Decimal
		MonthlyIncome decimal.Decimal
		Investments   []Investment
	}

	// Investment is one lump contribution into a tracked fund.
	Investment struct {
		ID            string
		Scheme        string
		Amount        decimal.Decimal
		Date          Date
		NAVAtPurchase decimal.Decimal
	}

	// NAVPoint is one entry of a fund's price history.
	NAVPoint struct {
		Date Date
		NAV  float64
	}

	// CategoryTotal is the aggregation result for one category bucket. Total
	// over a window is the sum of monthly-equivalent amounts, not raw amounts.
	CategoryTotal struct {
		Total        decimal.Decimal
		Count        int
		Transactions []Transaction
	}
)

var (
	ErrEmptyID          = errors.New("empty transaction id")
	ErrNegativeAmount   = errors.New("negative amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidProration = errors.New("invalid proration months")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidNAV       = errors.New("invalid nav")
	ErrInvalidScheme    = errors.New("empty scheme code")
)

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MonthIndex returns a monotonically increasing month ordinal. Two dates in
// the same calendar month share the same index regardless of day.
func (d Date) MonthIndex() int {
	return d.Year()*12 + int(d.Month()) - 1
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Prorated reports whether the transaction is spread across months.
// A normalized transaction never has ProrateMonths equal to 1.
func (t Transaction) Prorated() bool {
	return t.ProrateMonths >= 2
}

// Validate checks the transaction contract. Malformed business values that
// can be defaulted safely (missing category, missing budget type) are not
// errors; a negative amount or negative proration is a programmer error and
// must fail loudly.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	switch t.Kind {
	case Expense, Income:
	default:
		return ErrInvalidKind
	}
	if t.ProrateMonths < 0 {
		return ErrInvalidProration
	}
	switch t.BudgetTypeOverride {
	case "", Need, Want:
	default:
		return errors.New("invalid budget type override")
	}
	return nil
}

// Normalized returns a copy with ProrateMonths <= 1 collapsed to zero, so a
// one-month "proration" is indistinguishable from no proration at all.
// Storage applies this on every write.
func (t Transaction) Normalized() Transaction {
	if t.ProrateMonths <= 1 {
		t.ProrateMonths = 0
	}
	return t
}

// CategoryOrDefault returns the category label, substituting the reserved
// Uncategorized bucket when absent.
func (t Transaction) CategoryOrDefault() string {
	if strings.TrimSpace(t.Category) == "" {
		return Uncategorized
	}
	return t.Category
}

// Units returns the derived unit count for the contribution,
// amount / navAtPurchase. Zero when the purchase NAV is missing.
func (i Investment) Units() decimal.Decimal {
	if i.NAVAtPurchase.IsZero() {
		return decimal.Zero
	}
	return i.Amount.Div(i.NAVAtPurchase)
}

func (i Investment) Validate() error {
	if strings.TrimSpace(i.Scheme) == "" {
		return ErrInvalidScheme
	}
	if i.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !i.NAVAtPurchase.IsPositive() {
		return ErrInvalidNAV
	}
	return i.Date.Validate()
}
