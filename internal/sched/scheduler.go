// Package sched implements the polling scheduler: a fixed-interval tick that
// checks, against persisted period markers, whether the daily or monthly
// notification is due and fires each at most once per period.
package sched

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/marlonpp/casabot/internal/config"
	"github.com/marlonpp/casabot/internal/db"
)

const (
	dailyMarkerLayout   = "2006-01-02"
	monthlyMarkerLayout = "2006-01"
)

// Sender delivers a text payload to a chat. The Telegram adapter implements
// it; tests substitute a recording fake.
type Sender interface {
	Send(chatID int64, text string) error
}

type Scheduler struct {
	store  *db.Store
	sender Sender
	log    *slog.Logger

	groupName   string
	loc         *time.Location
	dailyHour   int
	dailyMinute int
	monthlyDay  int
	monthlyHour int
	interval    time.Duration

	now func() time.Time
}

func New(store *db.Store, sender Sender, cfg config.Config, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:       store,
		sender:      sender,
		log:         log,
		groupName:   cfg.GroupName,
		loc:         cfg.Location,
		dailyHour:   cfg.DailyHour,
		dailyMinute: cfg.DailyMinute,
		monthlyDay:  cfg.MonthlyDay,
		monthlyHour: cfg.MonthlyHour,
		interval:    cfg.TickInterval(),
		now:         time.Now,
	}
}

// Run ticks until ctx is cancelled. Ticks are serialized: the next check only
// happens after the previous tick, including marker persistence, completed.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler started",
		"interval", s.interval,
		"timezone", s.loc.String(),
		"daily_at", formatClock(s.dailyHour, s.dailyMinute),
		"monthly_day", s.monthlyDay)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduling pass. Exported so tests can drive the clock
// directly instead of waiting on the ticker.
func (s *Scheduler) Tick(ctx context.Context) {
	raw, ok, err := s.store.GetSetting(ctx, db.SettingGroupChatID)
	if err != nil {
		s.log.Error("tick: read group chat id", "err", err)
		return
	}
	if !ok {
		// Registration happens asynchronously when the bot joins a group.
		s.log.Debug("tick: no registered group yet")
		return
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.log.Error("tick: malformed group chat id", "value", raw, "err", err)
		return
	}

	now := s.now().In(s.loc)
	s.tickDaily(ctx, chatID, now)
	s.tickMonthly(ctx, chatID, now)
}

// tickDaily fires the daily reminder once the local clock has passed today's
// trigger instant, unless the marker says today already fired. The marker is
// only persisted after the send is confirmed, so a failed send is retried on
// the next tick and a crash in between cannot skip the day.
func (s *Scheduler) tickDaily(ctx context.Context, chatID int64, now time.Time) {
	today := now.Format(dailyMarkerLayout)

	last, _, err := s.store.GetSetting(ctx, db.SettingLastDailySent)
	if err != nil {
		s.log.Error("tick: read daily marker", "err", err)
		return
	}
	if last == today {
		return
	}

	trigger := time.Date(now.Year(), now.Month(), now.Day(), s.dailyHour, s.dailyMinute, 0, 0, s.loc)
	if now.Before(trigger) {
		return
	}

	tasks, err := s.store.ListTasks(ctx, &chatID, true)
	if err != nil {
		s.log.Error("tick: list pending tasks", "err", err)
		return
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		s.log.Error("tick: list shopping items", "err", err)
		return
	}

	text := renderDaily(s.groupName, tasks, items)
	if err := s.sender.Send(chatID, text); err != nil {
		s.log.Warn("daily reminder send failed, will retry next tick", "chat_id", chatID, "err", err)
		return
	}
	if err := s.store.SetSetting(ctx, db.SettingLastDailySent, today); err != nil {
		// Message went out but the marker did not stick; the next tick may
		// resend. At-least-once per day is the accepted failure mode.
		s.log.Error("tick: persist daily marker", "err", err)
		return
	}

	s.log.Info("daily reminder sent", "chat_id", chatID, "date", today, "pending_tasks", len(tasks))
}

// tickMonthly resets the recurring shopping list and notifies the group once
// per calendar month, on the configured day once the trigger hour has passed.
// If the process is down for the whole trigger day the month is skipped; there
// is no backfill.
func (s *Scheduler) tickMonthly(ctx context.Context, chatID int64, now time.Time) {
	monthKey := now.Format(monthlyMarkerLayout)

	last, _, err := s.store.GetSetting(ctx, db.SettingLastMonthlySent)
	if err != nil {
		s.log.Error("tick: read monthly marker", "err", err)
		return
	}
	if last == monthKey {
		return
	}
	if now.Day() != s.monthlyDay || now.Hour() < s.monthlyHour {
		return
	}

	// The reset itself is idempotent, so doing it before the send is safe:
	// a failed send repeats the reset on the next tick.
	if err := s.store.ResetShopping(ctx); err != nil {
		s.log.Error("tick: monthly shopping reset", "err", err)
		return
	}
	summary, err := s.store.Savings(ctx)
	if err != nil {
		s.log.Error("tick: read savings summary", "err", err)
		return
	}

	text := renderMonthly(s.groupName, summary)
	if err := s.sender.Send(chatID, text); err != nil {
		s.log.Warn("monthly notice send failed, will retry next tick", "chat_id", chatID, "err", err)
		return
	}
	if err := s.store.SetSetting(ctx, db.SettingLastMonthlySent, monthKey); err != nil {
		s.log.Error("tick: persist monthly marker", "err", err)
		return
	}

	s.log.Info("monthly notice sent", "chat_id", chatID, "month", monthKey)
}

func formatClock(hour, minute int) string {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC).Format("15:04")
}
