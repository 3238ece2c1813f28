package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"pingis-bot/services"
)

var errUsage = errors.New("wrong command format")

const genericFailure = "Något gick fel, försök igen senare."

// CommandHandler turns slash-command text into league operations and a reply.
type CommandHandler struct {
	League              *services.LeagueService
	AddMatchCommand     string
	ReportResultCommand string
}

func NewCommandHandler(league *services.LeagueService, addMatch, reportResult string) *CommandHandler {
	return &CommandHandler{League: league, AddMatchCommand: addMatch, ReportResultCommand: reportResult}
}

// Handle runs command with its argument text and returns the reply for the caller.
// Bad input never reaches the store.
func (h *CommandHandler) Handle(ctx context.Context, command, text string) string {
	switch command {
	case h.AddMatchCommand:
		return h.addMatch(ctx, text)
	case h.ReportResultCommand:
		return h.reportResult(ctx, text)
	default:
		return fmt.Sprintf("Okänt kommando: %s", command)
	}
}

func (h *CommandHandler) addMatch(ctx context.Context, text string) string {
	player1, player2, at, err := ParseAddMatch(text)
	if err != nil {
		return h.addMatchUsage()
	}
	m, err := h.League.AddMatch(ctx, player1, player2, at)
	if err != nil {
		log.Printf("❌ [%s] Failed to store match %q: %v", h.AddMatchCommand, text, err)
		return genericFailure
	}
	return fmt.Sprintf("Match tillagd: %s", services.FormatMatch(*m))
}

func (h *CommandHandler) reportResult(ctx context.Context, text string) string {
	player1, score1, player2, score2, err := ParseReportResult(text)
	if err != nil {
		return h.reportResultUsage()
	}
	r, err := h.League.ReportResult(ctx, player1, score1, player2, score2)
	if err != nil {
		log.Printf("❌ [%s] Failed to store result %q: %v", h.ReportResultCommand, text, err)
		return genericFailure
	}
	return fmt.Sprintf("Resultat rapporterat: %s", services.FormatResult(*r))
}

func (h *CommandHandler) addMatchUsage() string {
	return fmt.Sprintf("Fel format! Använd: %s player1 player2 time", h.AddMatchCommand)
}

func (h *CommandHandler) reportResultUsage() string {
	return fmt.Sprintf("Fel format! Använd: %s player1 score1 player2 score2", h.ReportResultCommand)
}

// ParseAddMatch expects exactly "player1 player2 time".
func ParseAddMatch(text string) (player1, player2, at string, err error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return "", "", "", errUsage
	}
	return fields[0], fields[1], fields[2], nil
}

// ParseReportResult expects exactly "player1 score1 player2 score2" with integer scores.
func ParseReportResult(text string) (player1 string, score1 int, player2 string, score2 int, err error) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return "", 0, "", 0, errUsage
	}
	score1, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, "", 0, errUsage
	}
	score2, err = strconv.Atoi(fields[3])
	if err != nil {
		return "", 0, "", 0, errUsage
	}
	return fields[0], score1, fields[2], score2, nil
}
