package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharedOwner is the owner recorded for tasks that belong to the whole
// household rather than a single person.
const SharedOwner = "ambos"

// Savings ledger entry kinds.
const (
	EntryDeposit    = "entrada"
	EntryWithdrawal = "saida"
)

type Task struct {
	ID     int64
	Text   string
	Owner  string
	Due    *time.Time
	Done   bool
	ChatID int64
}

type ShoppingItem struct {
	ID      int64
	Name    string
	Checked bool
}

type SavingsEntry struct {
	ID        int64
	Amount    decimal.Decimal
	Kind      string
	Note      string
	CreatedAt time.Time
}

// SavingsSummary is the derived view of the savings ledger: the balance over
// all entries plus the independently settable goal.
type SavingsSummary struct {
	Saved   decimal.Decimal
	Goal    decimal.Decimal
	Entries int
}

// HasGoal reports whether a target has been set; a zero goal means "no goal".
func (s SavingsSummary) HasGoal() bool {
	return s.Goal.IsPositive()
}

// ProgressPercent returns how far the balance is toward the goal, or zero
// when no goal is set.
func (s SavingsSummary) ProgressPercent() decimal.Decimal {
	if !s.HasGoal() {
		return decimal.Zero
	}
	return s.Saved.Div(s.Goal).Mul(decimal.NewFromInt(100))
}
