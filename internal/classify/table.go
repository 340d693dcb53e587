// Package classify resolves the needs/wants budget type of a transaction:
// a per-transaction override wins, else the static category table applies,
// else the category classifies as "want".
package classify

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"nidhi/internal/core"
)

//go:embed categories.toml
var defaultTableTOML []byte

type tableFile struct {
	Categories map[string]string `toml:"categories"`
}

// Table maps category names to budget types.
type Table struct {
	byCategory map[string]core.BudgetType
}

// Default returns the embedded classification table. The embedded file is
// part of the build, so a parse failure here is a packaging bug.
func Default() *Table {
	t, err := parse(defaultTableTOML)
	if err != nil {
		panic(fmt.Sprintf("classify: embedded table invalid: %v", err))
	}
	return t
}

// LoadFile reads a user-supplied table, replacing the embedded default.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classification table: %w", err)
	}
	t, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse classification table %s: %w", path, err)
	}
	return t, nil
}

func parse(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	byCategory := make(map[string]core.BudgetType, len(f.Categories))
	for category, raw := range f.Categories {
		switch core.BudgetType(raw) {
		case core.Need, core.Want:
			byCategory[category] = core.BudgetType(raw)
		default:
			return nil, fmt.Errorf("category %q: unknown budget type %q", category, raw)
		}
	}
	return &Table{byCategory: byCategory}, nil
}

// Classify resolves the budget type with override-wins precedence.
func (t *Table) Classify(tx core.Transaction) core.BudgetType {
	if tx.BudgetTypeOverride != "" {
		return tx.BudgetTypeOverride
	}
	if bt, ok := t.byCategory[tx.CategoryOrDefault()]; ok {
		return bt
	}
	return core.Want
}

// Lookup returns the table entry for a bare category name, defaulting to
// "want" for unknown categories.
func (t *Table) Lookup(category string) core.BudgetType {
	if bt, ok := t.byCategory[category]; ok {
		return bt
	}
	return core.Want
}
