// handlers/admin_routes.go
package handlers

import (
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"pingis-bot/middleware"
	"pingis-bot/models"
	"pingis-bot/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

// JobRunner fires a scheduled job by name.
type JobRunner interface {
	RunNow(name string) error
}

type adminHandler struct {
	league *services.LeagueService
	jobs   JobRunner
}

// SetupAdminRoutes mounts the admin API. Everything except /healthz needs the admin token.
func SetupAdminRoutes(app *fiber.App, league *services.LeagueService, jobs JobRunner, adminToken string) {
	h := &adminHandler{league: league, jobs: jobs}

	// 🔓 Public
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 🔐 Admin token required
	secured := app.Group("/", middleware.AdminAuthMiddleware(adminToken))

	secured.Get("/leaderboard", h.getLeaderboard)
	secured.Get("/leaderboard/:player", h.getPlayer)
	secured.Get("/matches", h.getMatches)
	secured.Get("/results", h.getResults)
	secured.Post("/results", h.importResult)
	secured.Post("/announcements/:job/run", h.runJob)
}

func (h *adminHandler) getLeaderboard(c *fiber.Ctx) error {
	entries, err := h.league.Leaderboard(c.UserContext())
	if err != nil {
		log.Printf("[Admin] Leaderboard error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard"})
	}
	return c.JSON(entries)
}

// getPlayer looks a player up by slug, so /leaderboard/bjorn finds "Björn".
func (h *adminHandler) getPlayer(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("player"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid player"})
	}
	want := slug.Make(raw)

	entries, err := h.league.Leaderboard(c.UserContext())
	if err != nil {
		log.Printf("[Admin] Leaderboard error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load leaderboard"})
	}
	for rank, e := range entries {
		if slug.Make(e.Player) == want {
			return c.JSON(fiber.Map{"rank": rank + 1, "player": e.Player, "points": e.Points})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "player not on the leaderboard"})
}

func (h *adminHandler) getMatches(c *fiber.Ctx) error {
	matches, err := h.league.Matches(c.UserContext())
	if err != nil {
		log.Printf("[Admin] Matches error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load matches"})
	}
	return c.JSON(matches)
}

func (h *adminHandler) getResults(c *fiber.Ctx) error {
	day := h.league.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = parsed
	}
	results, err := h.league.ResultsOn(c.UserContext(), day)
	if err != nil {
		log.Printf("[Admin] Results error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load results"})
	}
	return c.JSON(results)
}

type importResultRequest struct {
	Date    string `json:"date"`
	Player1 string `json:"player1"`
	Score1  int    `json:"score1"`
	Player2 string `json:"player2"`
	Score2  int    `json:"score2"`
}

// importResult stores a result unscored; the next daily run gives out the point.
func (h *adminHandler) importResult(c *fiber.Ctx) error {
	var req importResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	req.Player1 = strings.TrimSpace(req.Player1)
	req.Player2 = strings.TrimSpace(req.Player2)
	if req.Player1 == "" || req.Player2 == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "player1 and player2 are required"})
	}

	r := &models.Result{Player1: req.Player1, Score1: req.Score1, Player2: req.Player2, Score2: req.Score2}
	if req.Date != "" {
		d, err := time.Parse(models.DateLayout, req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		r.Date = d
	}

	if err := h.league.ImportResult(c.UserContext(), r); err != nil {
		log.Printf("[Admin] Import result error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store result"})
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *adminHandler) runJob(c *fiber.Ctx) error {
	name := c.Params("job")
	if err := h.jobs.RunNow(name); err != nil {
		if errors.Is(err, services.ErrUnknownJob) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown job"})
		}
		log.Printf("[Admin] RunNow %s error: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start job"})
	}
	log.Printf("✅ [Admin] Triggered %s", name)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"job": name, "status": "triggered"})
}
