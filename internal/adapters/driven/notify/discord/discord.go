// Package discord delivers violation summaries through the Discord REST
// API. There is no gateway connection: guild channels get a plain
// message create, and user targets get their DM channel opened first
// with the same bot token.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
)

const defaultAPIBase = "https://discord.com/api/v10"

// Config configures the notifier. Settings must already be validated.
type Config struct {
	// Settings carries the bot token, target snowflake and chat type.
	Settings domain.DiscordConfig

	// APIBase overrides the API root. Tests point it at a local server.
	APIBase string

	// Timeout bounds each API request.
	Timeout time.Duration

	// Logger receives delivery events.
	Logger zerolog.Logger
}

// Notifier implements driven.Notifier for Discord.
type Notifier struct {
	botToken string
	chatID   string
	chatType domain.DiscordChatType
	apiBase  string
	client   *http.Client
	log      zerolog.Logger

	mu        sync.Mutex
	dmChannel string
}

var _ driven.Notifier = (*Notifier)(nil)

// New creates a Notifier from cfg.
func New(cfg Config) *Notifier {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &Notifier{
		botToken: cfg.Settings.BotToken,
		chatID:   cfg.Settings.ChatID,
		chatType: cfg.Settings.ChatType,
		apiBase:  cfg.APIBase,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      cfg.Logger.With().Str("channel", "discord").Logger(),
	}
}

// Name identifies the channel in logs and dispatch reports.
func (n *Notifier) Name() string {
	return "discord"
}

// Send delivers the messages in order, one API call each. The first
// failure aborts the batch.
func (n *Notifier) Send(ctx context.Context, messages []string) error {
	channelID, err := n.channelID(ctx)
	if err != nil {
		return fmt.Errorf("%w: discord: %w", domain.ErrDelivery, err)
	}
	for i, message := range messages {
		if err := n.post(ctx, channelID, message); err != nil {
			return fmt.Errorf("%w: discord message %d/%d: %w", domain.ErrDelivery, i+1, len(messages), err)
		}
	}
	n.log.Info().
		Str("chat_id", n.chatID).
		Str("chat_type", string(n.chatType)).
		Int("messages", len(messages)).
		Msg("delivered")
	return nil
}

// channelID resolves where messages go. Channel targets are used as-is;
// user targets need a DM channel opened once, then the id is reused for
// the rest of the notifier's life.
func (n *Notifier) channelID(ctx context.Context) (string, error) {
	if n.chatType == domain.DiscordChatChannel {
		return n.chatID, nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.dmChannel != "" {
		return n.dmChannel, nil
	}

	payload, err := json.Marshal(openDMRequest{RecipientID: n.chatID})
	if err != nil {
		return "", fmt.Errorf("encode dm request: %w", err)
	}
	body, err := n.call(ctx, n.apiBase+"/users/@me/channels", payload)
	if err != nil {
		return "", fmt.Errorf("open dm channel: %w", err)
	}

	var channel dmChannel
	if err := json.Unmarshal(body, &channel); err != nil {
		return "", fmt.Errorf("decode dm channel: %w", err)
	}
	if channel.ID == "" {
		return "", fmt.Errorf("dm channel response carries no id")
	}
	n.dmChannel = channel.ID
	n.log.Debug().Str("dm_channel", channel.ID).Msg("opened dm channel")
	return channel.ID, nil
}

func (n *Notifier) post(ctx context.Context, channelID, message string) error {
	payload, err := json.Marshal(createMessageRequest{Content: message})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	url := fmt.Sprintf("%s/channels/%s/messages", n.apiBase, channelID)
	_, err = n.call(ctx, url, payload)
	return err
}

func (n *Notifier) call(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+n.botToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		switch resp.StatusCode {
		case http.StatusForbidden:
			return nil, fmt.Errorf("no permission (status %s): %s", resp.Status, body)
		case http.StatusNotFound:
			return nil, fmt.Errorf("unknown recipient (status %s): %s", resp.Status, body)
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("rate limited (status %s): %s", resp.Status, body)
		}
		return nil, fmt.Errorf("api status %s: %s", resp.Status, body)
	}
	return body, nil
}

type openDMRequest struct {
	RecipientID string `json:"recipient_id"`
}

type dmChannel struct {
	ID string `json:"id"`
}

type createMessageRequest struct {
	Content string `json:"content"`
}
