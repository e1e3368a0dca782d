// Package telegram delivers violation summaries through the Telegram
// Bot API. Messages go out one by one behind a rate limiter; Telegram
// throttles bots that post to a chat faster than about once a second.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
)

const defaultAPIBase = "https://api.telegram.org"

// Config configures the notifier. Settings must already be validated.
type Config struct {
	// Settings carries the bot token and target chat.
	Settings domain.TelegramConfig

	// APIBase overrides the API root. Tests point it at a local server.
	APIBase string

	// MessageInterval spaces consecutive messages. Zero means one
	// second, Telegram's per-chat ceiling.
	MessageInterval time.Duration

	// Timeout bounds each API request.
	Timeout time.Duration

	// Logger receives delivery events.
	Logger zerolog.Logger
}

// Notifier implements driven.Notifier for Telegram.
type Notifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
	limiter  *rate.Limiter
	log      zerolog.Logger
}

var _ driven.Notifier = (*Notifier)(nil)

// New creates a Notifier from cfg.
func New(cfg Config) *Notifier {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.MessageInterval <= 0 {
		cfg.MessageInterval = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &Notifier{
		botToken: cfg.Settings.BotToken,
		chatID:   cfg.Settings.ChatID,
		apiBase:  cfg.APIBase,
		client:   &http.Client{Timeout: cfg.Timeout},
		limiter:  rate.NewLimiter(rate.Every(cfg.MessageInterval), 1),
		log:      cfg.Logger.With().Str("channel", "telegram").Logger(),
	}
}

// Name identifies the channel in logs and dispatch reports.
func (n *Notifier) Name() string {
	return "telegram"
}

// Send delivers the messages in order, one API call each. The first
// failure aborts the batch.
func (n *Notifier) Send(ctx context.Context, messages []string) error {
	for i, message := range messages {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: telegram: %w", domain.ErrDelivery, err)
		}
		if err := n.send(ctx, message); err != nil {
			return fmt.Errorf("%w: telegram message %d/%d: %w", domain.ErrDelivery, i+1, len(messages), err)
		}
	}
	n.log.Info().Str("chat_id", n.chatID).Int("messages", len(messages)).Msg("delivered")
	return nil
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func (n *Notifier) send(ctx context.Context, message string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    n.chatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("api status %s: %s", resp.Status, body)
	}
	return nil
}
