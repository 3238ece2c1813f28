package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"pingis-bot/models"
)

const (
	KindWeeklyMatches = "weekly"
	KindDailyResults  = "daily"

	weeklyHeader      = "📅 **Veckans Matcher:**\n"
	dailyHeader       = "🏓 **Dagens Resultat:**\n"
	noMatchesToday    = "Inga matcher idag."
	leaderboardHeader = "**Leaderboard:**\n"
)

// Poster sends a message to a chat channel.
type Poster interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// Archiver keeps a copy of every announcement that was sent.
type Archiver interface {
	Archive(ctx context.Context, kind string, day time.Time, text string) error
}

// Announcer builds and posts the weekly match list and the daily results summary.
type Announcer struct {
	League   *LeagueService
	Poster   Poster
	Archiver Archiver // optional
	Channel  string
}

func NewAnnouncer(league *LeagueService, poster Poster, archiver Archiver, channel string) *Announcer {
	return &Announcer{League: league, Poster: poster, Archiver: archiver, Channel: channel}
}

// WeeklyMatchesMessage lists every match ever added.
func (a *Announcer) WeeklyMatchesMessage(ctx context.Context) (string, error) {
	matches, err := a.League.Matches(ctx)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(weeklyHeader)
	for _, m := range matches {
		b.WriteString(FormatMatch(m))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// DailyResultsMessage lists today's results and the leaderboard. Results that were
// inserted without being scored are scored here, before the leaderboard is read.
func (a *Announcer) DailyResultsMessage(ctx context.Context) (string, error) {
	today := a.League.Today()
	results, err := a.League.ResultsOn(ctx, today)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(results) == 0 {
		b.WriteString(noMatchesToday)
	} else {
		b.WriteString(dailyHeader)
		for _, r := range results {
			b.WriteString(FormatResult(r))
			b.WriteString("\n")
		}
		n, err := a.League.ScoreUnscored(ctx, results)
		if err != nil {
			return "", err
		}
		if n > 0 {
			log.Printf("[Announcer] Scored %d result(s) that were not scored at report time", n)
		}
	}

	entries, err := a.League.Leaderboard(ctx)
	if err != nil {
		return "", err
	}
	b.WriteString("\n")
	b.WriteString(FormatLeaderboard(entries))
	return b.String(), nil
}

func (a *Announcer) PostWeeklyMatches(ctx context.Context) error {
	msg, err := a.WeeklyMatchesMessage(ctx)
	if err != nil {
		return fmt.Errorf("build weekly matches: %w", err)
	}
	a.send(ctx, KindWeeklyMatches, msg)
	return nil
}

func (a *Announcer) PostDailyResults(ctx context.Context) error {
	msg, err := a.DailyResultsMessage(ctx)
	if err != nil {
		return fmt.Errorf("build daily results: %w", err)
	}
	a.send(ctx, KindDailyResults, msg)
	return nil
}

// send posts msg and archives it. Failures are logged and the message is dropped.
func (a *Announcer) send(ctx context.Context, kind, msg string) {
	if err := a.Poster.PostMessage(ctx, a.Channel, msg); err != nil {
		log.Printf("❌ Error posting %s announcement to %s: %v", kind, a.Channel, err)
		return
	}
	log.Printf("✅ Posted %s announcement to %s", kind, a.Channel)

	if a.Archiver == nil {
		return
	}
	if err := a.Archiver.Archive(ctx, kind, a.League.Today(), msg); err != nil {
		log.Printf("⚠️ Failed to archive %s announcement: %v", kind, err)
	}
}

func FormatMatch(m models.Match) string {
	return fmt.Sprintf("%s vs %s på %s", m.Player1, m.Player2, m.Time)
}

func FormatResult(r models.Result) string {
	return fmt.Sprintf("%s %d - %d %s", r.Player1, r.Score1, r.Score2, r.Player2)
}

// FormatLeaderboard renders the table in the order given.
func FormatLeaderboard(entries []models.LeaderboardEntry) string {
	var b strings.Builder
	b.WriteString(leaderboardHeader)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %d poäng\n", e.Player, e.Points)
	}
	return b.String()
}
