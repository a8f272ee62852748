package service

import (
	"context"
	"time"

	"choir-attendance/internal/clock"
	"choir-attendance/internal/logger"
	"choir-attendance/internal/model"
	"choir-attendance/internal/scoring"
)

type Notifier interface {
	Send(to []string, subject, body string) error
}

// ReminderService evaluates the weekend attendance reminder and, when a
// notifier is configured, mails it to the admins at most once a day.
type ReminderService struct {
	stats    *StatsService
	notifier Notifier
	admins   []string
	interval time.Duration
	clk      clock.Clock

	lastMailed string
}

func NewReminderService(stats *StatsService, notifier Notifier, admins []string, interval time.Duration, clk clock.Clock) *ReminderService {
	return &ReminderService{stats: stats, notifier: notifier, admins: admins, interval: interval, clk: clk}
}

func (s *ReminderService) Evaluate(ctx context.Context, role model.Role) (scoring.Reminder, error) {
	return s.stats.Reminder(ctx, role)
}

// Run checks on every tick until ctx is done.
func (s *ReminderService) Run(ctx context.Context) {
	if s.notifier == nil || len(s.admins) == 0 || s.interval <= 0 {
		return
	}
	ticks, stop := s.clk.NewTicker(s.interval)
	defer stop()
	logger.Info("reminder.watch", "interval", s.interval.String(), "admins", len(s.admins))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			s.check(ctx)
		}
	}
}

// check mails the reminder if it is showing and today's mail has not gone out.
func (s *ReminderService) check(ctx context.Context) bool {
	r, err := s.Evaluate(ctx, model.RoleAdmin)
	if err != nil {
		logger.Error("reminder.evaluate", "err", err)
		return false
	}
	if !r.Show {
		return false
	}
	today := s.stats.Now().Format("2006-01-02")
	if s.lastMailed == today {
		return false
	}
	if err := s.notifier.Send(s.admins, "Attendance reminder: "+r.Label, r.Message); err != nil {
		logger.Error("reminder.mail", "err", err)
		return false
	}
	s.lastMailed = today
	logger.Info("reminder.mailed", "day", r.Day, "admins", len(s.admins))
	return true
}
