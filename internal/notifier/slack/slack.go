package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pongclub/rally/internal/club"
	"github.com/pongclub/rally/internal/metrics"
	"github.com/pongclub/rally/internal/notifier"
	"github.com/pongclub/rally/internal/stats"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendResultNotification posts the outcome of a recorded match.
func (s *Notifier) SendResultNotification(match *club.Match, names map[string]string, dryRun bool) error {
	msg := s.formatResultNotification(match, names)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard posts the current standings.
func (s *Notifier) SendLeaderboard(entries []stats.Entry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func sideName(names map[string]string, ids ...string) string {
	var parts []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if name, ok := names[id]; ok && name != "" {
			parts = append(parts, name)
		} else {
			parts = append(parts, id)
		}
	}
	return strings.Join(parts, " & ")
}

// formatResultNotification creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatResultNotification(match *club.Match, names map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match recorded! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	sideOne := sideName(names, match.Player1ID, match.Player3ID)
	sideTwo := sideName(names, match.Player2ID, match.Player4ID)

	detailsText := fmt.Sprintf("%s vs %s\nPlayed: %s", sideOne, sideTwo,
		time.Unix(match.Date, 0).Format("Monday 02 Jan"))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	if len(match.Sets) > 0 {
		var scores []string
		for i, set := range match.Sets {
			scores = append(scores, fmt.Sprintf("Set %d: %d-%d", i+1, set.P1, set.P2))
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(scores, "\n"), false, false), nil, nil))
	}

	resultText := "Result: Draw."
	if match.WinnerID != "" {
		winningSide := sideTwo
		if match.OnSideOne(match.WinnerID) {
			winningSide = sideOne
		}
		resultText = fmt.Sprintf("Result: %s won! 🏆", winningSide)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	if match.Note != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", match.Note, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display the standings.
func (s *Notifier) formatLeaderboard(entries []stats.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Club Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, entry := range entries {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> ELO: %d | Win %%: %d%% (%d-%d-%d)",
			rank,
			medal,
			entry.Player.Name,
			entry.Player.EloRating,
			entry.Stats.WinRate,
			entry.Stats.Wins,
			entry.Stats.Losses,
			entry.Stats.Draws,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
