// workers/slack_socket_worker.go
package workers

import (
	"context"
	"log"

	"pingis-bot/utils"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
)

// CommandDispatcher runs a slash command and returns the reply text.
type CommandDispatcher interface {
	Handle(ctx context.Context, command, text string) string
}

// SlackSocketWorker receives slash commands over Socket Mode, so the bot needs no public endpoint.
type SlackSocketWorker struct {
	client   *socketmode.Client
	commands CommandDispatcher

	ack     func(req socketmode.Request)
	respond func(ctx context.Context, responseURL, text string) error
}

func NewSlackSocketWorker(api *slack.Client, commands CommandDispatcher) *SlackSocketWorker {
	client := socketmode.New(api)
	return &SlackSocketWorker{
		client:   client,
		commands: commands,
		ack:      func(req socketmode.Request) { client.Ack(req) },
		respond:  utils.Respond,
	}
}

// Start connects to Slack and dispatches events until ctx is cancelled.
func (w *SlackSocketWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Slack Socket Mode worker…")
	go w.run(ctx)
	go func() {
		if err := w.client.RunContext(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("❌ [SLACK] Socket Mode connection stopped: %v", err)
		}
	}()
}

func (w *SlackSocketWorker) run(ctx context.Context) {
	for {
		select {
		case evt, ok := <-w.client.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, evt)
		case <-ctx.Done():
			log.Println("⏹️ Slack Socket Mode worker stopped")
			return
		}
	}
}

func (w *SlackSocketWorker) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		log.Println("[SLACK] Connecting to Slack with Socket Mode…")
	case socketmode.EventTypeConnectionError:
		log.Printf("⚠️ [SLACK] Connection failed, retrying: %v", evt.Data)
	case socketmode.EventTypeConnected:
		log.Println("✅ [SLACK] Connected to Slack with Socket Mode")
	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			log.Printf("⚠️ [SLACK] Ignored slash command event with payload %T", evt.Data)
			return
		}
		// Slack wants the ack within 3 seconds; the reply goes out later via response_url.
		if evt.Request != nil {
			w.ack(*evt.Request)
		}
		go w.handleSlashCommand(ctx, cmd)
	}
}

func (w *SlackSocketWorker) handleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	log.Printf("[SLACK] %s %q from %s", cmd.Command, cmd.Text, cmd.UserName)
	reply := w.commands.Handle(ctx, cmd.Command, cmd.Text)
	if err := w.respond(ctx, cmd.ResponseURL, reply); err != nil {
		log.Printf("❌ [SLACK] Failed to reply to %s: %v", cmd.Command, err)
	}
}
