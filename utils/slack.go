// utils/slack.go
package utils

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// NewSlackClient builds a Web API client that can also open a Socket Mode connection.
func NewSlackClient(botToken, appToken string) *slack.Client {
	return slack.New(botToken,
		slack.OptionAppLevelToken(appToken),
		slack.OptionHTTPClient(HTTPClient),
	)
}

// SlackPoster posts plain-text messages with chat.postMessage.
type SlackPoster struct {
	Client *slack.Client
}

func NewSlackPoster(client *slack.Client) *SlackPoster {
	return &SlackPoster{Client: client}
}

func (p *SlackPoster) PostMessage(ctx context.Context, channel, text string) error {
	_, _, err := p.Client.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("chat.postMessage to %s: %w", channel, err)
	}
	return nil
}

// Respond replies to a slash command through its response URL.
func Respond(ctx context.Context, responseURL, text string) error {
	msg := &slack.WebhookMessage{Text: text, ResponseType: slack.ResponseTypeEphemeral}
	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, HTTPClient, msg); err != nil {
		return fmt.Errorf("respond to slash command: %w", err)
	}
	return nil
}
