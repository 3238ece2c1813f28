// services/scheduler.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

const (
	JobWeeklyMatches = "weekly-matches"
	JobDailyResults  = "daily-results"
)

var ErrUnknownJob = errors.New("unknown job")

// ScheduledAction is a named action fired on a cron schedule.
type ScheduledAction struct {
	Name string
	Cron string // five-field crontab, evaluated in the scheduler's location
	Run  func(ctx context.Context) error
}

// AnnouncementScheduler runs named actions on cron schedules.
type AnnouncementScheduler struct {
	sched gocron.Scheduler
	jobs  map[string]gocron.Job
}

// NewAnnouncementScheduler registers every action. ctx is handed to each run and
// should be cancelled on shutdown.
func NewAnnouncementScheduler(ctx context.Context, loc *time.Location, clock clockwork.Clock, actions []ScheduledAction) (*AnnouncementScheduler, error) {
	opts := []gocron.SchedulerOption{gocron.WithLocation(loc)}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &AnnouncementScheduler{sched: sched, jobs: make(map[string]gocron.Job)}
	for _, action := range actions {
		if _, dup := s.jobs[action.Name]; dup {
			_ = sched.Shutdown()
			return nil, fmt.Errorf("job %q registered twice", action.Name)
		}
		action := action
		job, err := sched.NewJob(
			gocron.CronJob(action.Cron, false),
			gocron.NewTask(func() {
				log.Printf("[Scheduler] ▶️ Running %s", action.Name)
				if err := action.Run(ctx); err != nil {
					log.Printf("[Scheduler] ❌ %s failed: %v", action.Name, err)
				}
			}),
			gocron.WithName(action.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return nil, fmt.Errorf("schedule %s (%q): %w", action.Name, action.Cron, err)
		}
		s.jobs[action.Name] = job
	}
	return s, nil
}

// AnnouncementActions maps the announcer onto the two standard jobs.
func AnnouncementActions(a *Announcer, weeklyCron, dailyCron string) []ScheduledAction {
	return []ScheduledAction{
		{Name: JobWeeklyMatches, Cron: weeklyCron, Run: a.PostWeeklyMatches},
		{Name: JobDailyResults, Cron: dailyCron, Run: a.PostDailyResults},
	}
}

func (s *AnnouncementScheduler) Start() {
	s.sched.Start()
	for _, name := range s.Names() {
		if next, err := s.jobs[name].NextRun(); err == nil && !next.IsZero() {
			log.Printf("[Scheduler] %s next run at %s", name, next.Format(time.RFC3339))
		}
	}
}

// RunNow fires the named job immediately, outside its schedule.
func (s *AnnouncementScheduler) RunNow(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return job.RunNow()
}

func (s *AnnouncementScheduler) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *AnnouncementScheduler) Shutdown() error {
	return s.sched.Shutdown()
}
