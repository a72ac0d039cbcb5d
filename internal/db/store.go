package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marlonpp/casabot/internal/model"
)

// DueLayout is the storage format for task due timestamps.
const DueLayout = "2006-01-02T15:04"

// Store exposes the domain operations over the sqlite database. Every method
// is a single statement or a single short transaction, so concurrent callers
// never observe a half-written row.
type Store struct {
	DB *sql.DB
}

type TaskInput struct {
	Text   string
	Owner  string
	Due    *time.Time
	ChatID int64
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// --- settings ---

// GetSetting returns the value for k; the bool is false when the key has
// never been written.
func (s *Store) GetSetting(ctx context.Context, k string) (string, bool, error) {
	var v string
	err := s.DB.QueryRowContext(ctx, "SELECT v FROM settings WHERE k = ?", k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", k, err)
	}
	return v, true, nil
}

func (s *Store) SetSetting(ctx context.Context, k, v string) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO settings (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v", k, v)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", k, err)
	}
	return nil
}

// --- tasks ---

// AddTask inserts a task and returns it with its assigned id. An empty owner
// defaults to the shared-household sentinel.
func (s *Store) AddTask(ctx context.Context, input TaskInput) (model.Task, error) {
	owner := strings.TrimSpace(input.Owner)
	if owner == "" {
		owner = model.SharedOwner
	}

	var due sql.NullString
	if input.Due != nil {
		due = sql.NullString{String: input.Due.Format(DueLayout), Valid: true}
	}

	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO tasks (text, owner, due, chat_id) VALUES (?, ?, ?, ?)",
		input.Text, owner, due, input.ChatID)
	if err != nil {
		return model.Task{}, fmt.Errorf("add task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, fmt.Errorf("add task id: %w", err)
	}

	task := model.Task{ID: id, Text: input.Text, Owner: owner, Due: input.Due, ChatID: input.ChatID}
	return task, nil
}

// ListTasks returns tasks in insertion order. A nil chatID returns tasks
// across all chats; pendingOnly filters out completed tasks.
func (s *Store) ListTasks(ctx context.Context, chatID *int64, pendingOnly bool) ([]model.Task, error) {
	query := "SELECT id, text, owner, due, done, chat_id FROM tasks"
	var clauses []string
	var args []any
	if chatID != nil {
		clauses = append(clauses, "chat_id = ?")
		args = append(args, *chatID)
	}
	if pendingOnly {
		clauses = append(clauses, "done = 0")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		var due sql.NullString
		var done int64
		if err := rows.Scan(&t.ID, &t.Text, &t.Owner, &due, &done, &t.ChatID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Done = done != 0
		if due.Valid {
			parsed, err := time.Parse(DueLayout, due.String)
			if err != nil {
				return nil, fmt.Errorf("parse task due %q: %w", due.String, err)
			}
			t.Due = &parsed
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// MarkTaskDone flips a task to done. Returns false when the id is unknown.
// Done is a one way transition; marking an already-done task is a no-op success.
func (s *Store) MarkTaskDone(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, "UPDATE tasks SET done = 1 WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("mark task done: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RemoveTask deletes a task. Returns false when the id is unknown.
func (s *Store) RemoveTask(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("remove task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- shopping ---

// AddItem inserts a shopping item. A duplicate name is an expected no-op and
// returns false rather than an error.
func (s *Store) AddItem(ctx context.Context, name string) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		"INSERT OR IGNORE INTO shopping (name, checked) VALUES (?, 0)", name)
	if err != nil {
		return false, fmt.Errorf("add item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ListItems(ctx context.Context) ([]model.ShoppingItem, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, name, checked FROM shopping ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		var item model.ShoppingItem
		var checked int64
		if err := rows.Scan(&item.ID, &item.Name, &checked); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Checked = checked != 0
		items = append(items, item)
	}
	return items, rows.Err()
}

// ToggleItem flips an item's checked state and returns the new state, or nil
// when the id is unknown. Read and write happen in one transaction.
func (s *Store) ToggleItem(ctx context.Context, id int64) (*bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var checked int64
	err = tx.QueryRowContext(ctx, "SELECT checked FROM shopping WHERE id = ?", id).Scan(&checked)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}

	next := checked == 0
	if _, err := tx.ExecContext(ctx, "UPDATE shopping SET checked = ? WHERE id = ?", boolToInt(next), id); err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("toggle item: %w", err)
	}
	return &next, nil
}

// ResetShopping unchecks every item, keeping the rows. Used by the monthly
// reset so the recurring list starts the month fresh.
func (s *Store) ResetShopping(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "UPDATE shopping SET checked = 0"); err != nil {
		return fmt.Errorf("reset shopping: %w", err)
	}
	return nil
}

// ClearShopping deletes all items.
func (s *Store) ClearShopping(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM shopping"); err != nil {
		return fmt.Errorf("clear shopping: %w", err)
	}
	return nil
}

// --- savings ---

// Savings returns the ledger balance, the goal and the entry count.
func (s *Store) Savings(ctx context.Context) (model.SavingsSummary, error) {
	var goalStr string
	err := s.DB.QueryRowContext(ctx, "SELECT goal FROM savings WHERE id = 1").Scan(&goalStr)
	if err != nil {
		return model.SavingsSummary{}, fmt.Errorf("get savings goal: %w", err)
	}
	goal, err := decimal.NewFromString(goalStr)
	if err != nil {
		return model.SavingsSummary{}, fmt.Errorf("parse savings goal %q: %w", goalStr, err)
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT amount FROM savings_entries")
	if err != nil {
		return model.SavingsSummary{}, fmt.Errorf("sum savings: %w", err)
	}
	defer rows.Close()

	// Amounts are stored as decimal text and summed here; sqlite's SUM would
	// go through float64 and drift.
	saved := decimal.Zero
	count := 0
	for rows.Next() {
		var amountStr string
		if err := rows.Scan(&amountStr); err != nil {
			return model.SavingsSummary{}, fmt.Errorf("scan savings entry: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return model.SavingsSummary{}, fmt.Errorf("parse savings amount %q: %w", amountStr, err)
		}
		saved = saved.Add(amount)
		count++
	}
	if err := rows.Err(); err != nil {
		return model.SavingsSummary{}, err
	}

	return model.SavingsSummary{Saved: saved, Goal: goal, Entries: count}, nil
}

// AddSavings records a signed ledger entry (positive deposit, negative
// withdrawal) and returns the updated summary.
func (s *Store) AddSavings(ctx context.Context, amount decimal.Decimal, note string) (model.SavingsSummary, error) {
	if amount.IsZero() {
		return model.SavingsSummary{}, fmt.Errorf("savings amount must be non-zero")
	}

	kind := model.EntryDeposit
	if amount.IsNegative() {
		kind = model.EntryWithdrawal
	}

	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO savings_entries (amount, kind, note) VALUES (?, ?, ?)",
		amount.String(), kind, note)
	if err != nil {
		return model.SavingsSummary{}, fmt.Errorf("add savings entry: %w", err)
	}

	return s.Savings(ctx)
}

// SetSavingsGoal replaces the goal and returns the updated summary. A zero
// goal clears the target.
func (s *Store) SetSavingsGoal(ctx context.Context, goal decimal.Decimal) (model.SavingsSummary, error) {
	if goal.IsNegative() {
		return model.SavingsSummary{}, fmt.Errorf("savings goal must not be negative")
	}

	_, err := s.DB.ExecContext(ctx, "UPDATE savings SET goal = ? WHERE id = 1", goal.String())
	if err != nil {
		return model.SavingsSummary{}, fmt.Errorf("set savings goal: %w", err)
	}

	return s.Savings(ctx)
}

// ListSavingsEntries returns the most recent ledger entries, newest first.
func (s *Store) ListSavingsEntries(ctx context.Context, limit int) ([]model.SavingsEntry, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, amount, kind, note, created_at FROM savings_entries ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list savings entries: %w", err)
	}
	defer rows.Close()

	var entries []model.SavingsEntry
	for rows.Next() {
		var e model.SavingsEntry
		var amountStr string
		if err := rows.Scan(&e.ID, &amountStr, &e.Kind, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan savings entry: %w", err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("parse savings amount %q: %w", amountStr, err)
		}
		e.Amount = amount
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
