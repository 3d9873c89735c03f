package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"tradeJournalBot/internal/app"
	"tradeJournalBot/internal/ports"
	"tradeJournalBot/internal/report"
)

// Scheduler pushes the open-risk summary to the notifier at fixed local
// times every day.
type Scheduler struct {
	cron     *cron.Cron
	logger   ports.Logger
	service  *app.JournalService
	notifier ports.Notifier
	loc      *time.Location
}

type Config struct {
	Logger   ports.Logger
	Service  *app.JournalService
	Notifier ports.Notifier
	Location *time.Location
	Hours    []int
	Minute   int
}

func New(cfg Config) (*Scheduler, error) {
	if cfg.Logger == nil || cfg.Service == nil || cfg.Notifier == nil {
		return nil, fmt.Errorf("scheduler: logger, service and notifier are required: %w", ports.ErrConfigurationError)
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		logger:   cfg.Logger,
		service:  cfg.Service,
		notifier: cfg.Notifier,
		loc:      loc,
	}

	if len(cfg.Hours) == 0 {
		return s, nil
	}

	hours := make([]string, len(cfg.Hours))
	for i, h := range cfg.Hours {
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("scheduler: invalid report hour %d: %w", h, ports.ErrConfigurationError)
		}
		hours[i] = strconv.Itoa(h)
	}
	if cfg.Minute < 0 || cfg.Minute > 59 {
		return nil, fmt.Errorf("scheduler: invalid report minute %d: %w", cfg.Minute, ports.ErrConfigurationError)
	}

	spec := fmt.Sprintf("%d %s * * *", cfg.Minute, strings.Join(hours, ","))
	if _, err := s.cron.AddFunc(spec, s.reportOpenRisk); err != nil {
		return nil, fmt.Errorf("scheduler: failed to register job %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info(context.Background(), "Scheduler started", map[string]interface{}{"jobs": len(s.cron.Entries())})
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info(context.Background(), "Scheduler stopped")
}

// reportOpenRisk is the scheduled job body. A failure is logged and the
// next run proceeds as normal.
func (s *Scheduler) reportOpenRisk() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	risk, err := s.service.OpenRisk(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "Scheduled open-risk report failed")
		return
	}

	text := report.ScheduledOpenRisk(risk, time.Now().In(s.loc))
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Error(ctx, err, "Failed to deliver scheduled open-risk report")
		return
	}
	s.logger.Info(ctx, "Scheduled open-risk report delivered", map[string]interface{}{"openTrades": risk.Count})
}
