package domain

import (
	"fmt"
	"regexp"
)

// Notification channel configuration lives in the domain so validation
// rules stay with the values they guard.

var (
	telegramBotTokenRe = regexp.MustCompile(`^[0-9]+:.+$`)
	telegramChatIDRe   = regexp.MustCompile(`^-?[0-9]+$`)
	discordBotTokenRe  = regexp.MustCompile(`^[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+$`)
	discordChatIDRe    = regexp.MustCompile(`^\d{18,19}$`)
)

// DiscordChatType selects how a Discord notification is delivered.
type DiscordChatType string

const (
	// DiscordChatUser delivers to a user's DM channel.
	DiscordChatUser DiscordChatType = "user"
	// DiscordChatChannel delivers to a guild text channel.
	DiscordChatChannel DiscordChatType = "channel"
)

// TelegramConfig configures one Telegram delivery target.
type TelegramConfig struct {
	// BotToken is the Bot API token ("<numeric id>:<secret>").
	BotToken string
	// ChatID is the numeric chat identifier. Group chats carry a
	// leading "-".
	ChatID string
	// Enabled gates delivery without discarding the config.
	Enabled bool
}

// Validate checks the token and chat id shapes.
func (c TelegramConfig) Validate() error {
	if !telegramBotTokenRe.MatchString(c.BotToken) {
		return fmt.Errorf("%w: telegram bot token must look like \"<id>:<secret>\"", ErrInvalidConfig)
	}
	if !telegramChatIDRe.MatchString(c.ChatID) {
		return fmt.Errorf("%w: telegram chat id must be numeric", ErrInvalidConfig)
	}
	return nil
}

// DiscordConfig configures one Discord delivery target.
type DiscordConfig struct {
	// BotToken is the three-part bot token.
	BotToken string
	// ChatID is the snowflake of the user or channel to deliver to.
	ChatID string
	// ChatType selects DM versus channel delivery.
	ChatType DiscordChatType
	// Enabled gates delivery without discarding the config.
	Enabled bool
}

// Validate checks the token, snowflake and chat type shapes.
func (c DiscordConfig) Validate() error {
	if !discordBotTokenRe.MatchString(c.BotToken) {
		return fmt.Errorf("%w: discord bot token must be three dot-separated parts", ErrInvalidConfig)
	}
	if !discordChatIDRe.MatchString(c.ChatID) {
		return fmt.Errorf("%w: discord chat id must be an 18-19 digit snowflake", ErrInvalidConfig)
	}
	switch c.ChatType {
	case DiscordChatUser, DiscordChatChannel:
		return nil
	default:
		return fmt.Errorf("%w: discord chat type must be %q or %q", ErrInvalidConfig, DiscordChatUser, DiscordChatChannel)
	}
}
