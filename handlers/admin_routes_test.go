package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pingis-bot/models"
	"pingis-bot/services"
	"pingis-bot/store"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
)

const testAdminToken = "s3cret"

type fakeJobs struct {
	ran []string
}

func (f *fakeJobs) RunNow(name string) error {
	if name != services.JobDailyResults && name != services.JobWeeklyMatches {
		return services.ErrUnknownJob
	}
	f.ran = append(f.ran, name)
	return nil
}

func newTestAdminApp(t *testing.T) (*fiber.App, *services.LeagueService, *fakeJobs) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	league := services.NewLeagueService(store.NewMemoryStore(), clock, time.UTC)
	jobs := &fakeJobs{}
	app := fiber.New()
	SetupAdminRoutes(app, league, jobs, testAdminToken)
	return app, league, jobs
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string, authed bool) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestAdmin_Healthz(t *testing.T) {
	app, _, _ := newTestAdminApp(t)
	status, body := doRequest(t, app, http.MethodGet, "/healthz", "", false)
	if status != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("healthz = %d %s", status, body)
	}
}

func TestAdmin_RequiresToken(t *testing.T) {
	app, _, _ := newTestAdminApp(t)

	if status, _ := doRequest(t, app, http.MethodGet, "/leaderboard", "", false); status != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", status)
	}

	req := httptest.NewRequest(http.MethodGet, "/leaderboard", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", resp.StatusCode)
	}
}

func TestAdmin_Leaderboard(t *testing.T) {
	app, league, _ := newTestAdminApp(t)
	ctx := context.Background()
	_, _ = league.ReportResult(ctx, "Björn", 11, "Anna", 4)
	_, _ = league.ReportResult(ctx, "Björn", 11, "Anna", 9)
	_, _ = league.ReportResult(ctx, "Anna", 11, "Björn", 9)

	status, body := doRequest(t, app, http.MethodGet, "/leaderboard", "", true)
	if status != http.StatusOK {
		t.Fatalf("status = %d, body %s", status, body)
	}
	var entries []models.LeaderboardEntry
	if err := json.Unmarshal([]byte(body), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 2 || entries[0].Player != "Björn" || entries[0].Points != 2 || entries[1].Player != "Anna" {
		t.Fatalf("entries = %+v", entries)
	}

	status, body = doRequest(t, app, http.MethodGet, "/leaderboard/bjorn", "", true)
	if status != http.StatusOK || !strings.Contains(body, `"rank":1`) || !strings.Contains(body, `"points":2`) {
		t.Fatalf("player lookup = %d %s", status, body)
	}

	if status, _ := doRequest(t, app, http.MethodGet, "/leaderboard/cecilia", "", true); status != http.StatusNotFound {
		t.Fatalf("unknown player status = %d, want 404", status)
	}
}

func TestAdmin_Results(t *testing.T) {
	app, league, _ := newTestAdminApp(t)
	_, _ = league.ReportResult(context.Background(), "A", 11, "B", 2)

	status, body := doRequest(t, app, http.MethodGet, "/results", "", true)
	if status != http.StatusOK || !strings.Contains(body, `"player1":"A"`) {
		t.Fatalf("today's results = %d %s", status, body)
	}

	status, body = doRequest(t, app, http.MethodGet, "/results?date=2026-10-18", "", true)
	if status != http.StatusOK || strings.Contains(body, `"player1"`) {
		t.Fatalf("yesterday's results = %d %s", status, body)
	}

	if status, _ := doRequest(t, app, http.MethodGet, "/results?date=19/10", "", true); status != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", status)
	}
}

func TestAdmin_ImportResult(t *testing.T) {
	app, league, _ := newTestAdminApp(t)
	ctx := context.Background()

	status, body := doRequest(t, app, http.MethodPost, "/results",
		`{"date":"2026-10-19","player1":"C","score1":11,"player2":"D","score2":7}`, true)
	if status != http.StatusCreated {
		t.Fatalf("import = %d %s", status, body)
	}

	results, _ := league.ResultsOn(ctx, league.Today())
	if len(results) != 1 || results[0].ScoredAt != nil {
		t.Fatalf("imported results = %+v, want one unscored", results)
	}
	if entries, _ := league.Leaderboard(ctx); len(entries) != 0 {
		t.Fatalf("import should not score, leaderboard = %+v", entries)
	}

	if status, _ := doRequest(t, app, http.MethodPost, "/results", `{"player1":"C"}`, true); status != http.StatusBadRequest {
		t.Fatalf("missing player2 status = %d, want 400", status)
	}
}

func TestAdmin_Matches(t *testing.T) {
	app, league, _ := newTestAdminApp(t)
	_, _ = league.AddMatch(context.Background(), "A", "B", "12:00")

	status, body := doRequest(t, app, http.MethodGet, "/matches", "", true)
	if status != http.StatusOK || !strings.Contains(body, `"time":"12:00"`) {
		t.Fatalf("matches = %d %s", status, body)
	}
}

func TestAdmin_RunJob(t *testing.T) {
	app, _, jobs := newTestAdminApp(t)

	status, _ := doRequest(t, app, http.MethodPost, "/announcements/daily-results/run", "", true)
	if status != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", status)
	}
	if len(jobs.ran) != 1 || jobs.ran[0] != services.JobDailyResults {
		t.Fatalf("ran = %v", jobs.ran)
	}

	if status, _ := doRequest(t, app, http.MethodPost, "/announcements/monthly/run", "", true); status != http.StatusNotFound {
		t.Fatalf("unknown job status = %d, want 404", status)
	}
}
