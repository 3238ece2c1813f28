package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestAnnouncementScheduler_RunNow(t *testing.T) {
	loc := stockholm(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 8, 0, 0, 0, loc))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan string, 2)
	actions := []ScheduledAction{
		{Name: JobWeeklyMatches, Cron: "0 9 * * 1", Run: func(context.Context) error { fired <- JobWeeklyMatches; return nil }},
		{Name: JobDailyResults, Cron: "0 18 * * *", Run: func(context.Context) error { fired <- JobDailyResults; return errors.New("logged only") }},
	}

	s, err := NewAnnouncementScheduler(ctx, loc, clock, actions)
	if err != nil {
		t.Fatalf("NewAnnouncementScheduler: %v", err)
	}
	defer func() { _ = s.Shutdown() }()
	s.Start()

	if got := s.Names(); len(got) != 2 || got[0] != JobDailyResults || got[1] != JobWeeklyMatches {
		t.Fatalf("Names = %v", got)
	}

	for _, name := range []string{JobDailyResults, JobWeeklyMatches} {
		if err := s.RunNow(name); err != nil {
			t.Fatalf("RunNow(%s): %v", name, err)
		}
		select {
		case got := <-fired:
			if got != name {
				t.Fatalf("fired %s, want %s", got, name)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("%s did not run", name)
		}
	}
}

func TestAnnouncementScheduler_UnknownJob(t *testing.T) {
	s, err := NewAnnouncementScheduler(context.Background(), time.UTC, nil, nil)
	if err != nil {
		t.Fatalf("NewAnnouncementScheduler: %v", err)
	}
	defer func() { _ = s.Shutdown() }()

	if err := s.RunNow("monthly"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("RunNow(monthly) = %v, want ErrUnknownJob", err)
	}
}

func TestAnnouncementScheduler_Rejects(t *testing.T) {
	noop := func(context.Context) error { return nil }
	tests := []struct {
		name    string
		actions []ScheduledAction
	}{
		{"bad cron", []ScheduledAction{{Name: "x", Cron: "every monday", Run: noop}}},
		{"duplicate name", []ScheduledAction{
			{Name: "x", Cron: "0 9 * * 1", Run: noop},
			{Name: "x", Cron: "0 18 * * *", Run: noop},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnnouncementScheduler(context.Background(), time.UTC, nil, tt.actions); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAnnouncementActions(t *testing.T) {
	a := &Announcer{}
	actions := AnnouncementActions(a, "0 9 * * 1", "0 18 * * *")
	if len(actions) != 2 {
		t.Fatalf("actions = %d, want 2", len(actions))
	}
	if actions[0].Name != JobWeeklyMatches || actions[0].Cron != "0 9 * * 1" {
		t.Errorf("weekly action = %+v", actions[0])
	}
	if actions[1].Name != JobDailyResults || actions[1].Cron != "0 18 * * *" {
		t.Errorf("daily action = %+v", actions[1])
	}
}
