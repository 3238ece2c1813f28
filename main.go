package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pingis-bot/config"
	"pingis-bot/handlers"
	"pingis-bot/services"
	"pingis-bot/store"
	"pingis-bot/utils"
	"pingis-bot/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("⚠️ Failed to close database: %v", err)
		}
	}()

	var archiver services.Archiver
	if cfg.ArchiveEnabled() {
		r2, err := utils.NewR2Archive(ctx, cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret, cfg.R2Bucket)
		if err != nil {
			log.Fatal(err)
		}
		archiver = r2
		log.Printf("✅ Announcements archived to R2 bucket %s", cfg.R2Bucket)
	}

	clock := clockwork.NewRealClock()
	slackClient := utils.NewSlackClient(cfg.SlackBotToken, cfg.SlackAppToken)

	league := services.NewLeagueService(st, clock, cfg.Location)
	announcer := services.NewAnnouncer(league, utils.NewSlackPoster(slackClient), archiver, cfg.Channel)

	scheduler, err := services.NewAnnouncementScheduler(ctx, cfg.Location, clock,
		services.AnnouncementActions(announcer, cfg.WeeklyCron, cfg.DailyCron))
	if err != nil {
		log.Fatal("failed to set up announcement schedule: ", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			log.Printf("⚠️ Scheduler shutdown: %v", err)
		}
	}()

	commands := handlers.NewCommandHandler(league, cfg.AddMatchCommand, cfg.ReportResultCommand)
	workers.NewSlackSocketWorker(slackClient, commands).Start(ctx)

	var app *fiber.App
	if cfg.AdminAddr != "" {
		app = fiber.New(fiber.Config{DisableStartupMessage: true})
		handlers.SetupAdminRoutes(app, league, scheduler, cfg.AdminToken)
		go func() {
			if err := app.Listen(cfg.AdminAddr); err != nil {
				log.Printf("Admin server error: %v", err)
			}
		}()
		log.Printf("✅ Admin API on %s", cfg.AdminAddr)
	}

	log.Printf("✅ Listening for %s and %s", cfg.AddMatchCommand, cfg.ReportResultCommand)
	log.Printf("✅ Weekly matches at %q, daily results at %q (%s) → %s", cfg.WeeklyCron, cfg.DailyCron, cfg.Location, cfg.Channel)

	<-ctx.Done()
	log.Println("Shutting down…")
	if app != nil {
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Admin server shutdown: %v", err)
		}
	}
}
