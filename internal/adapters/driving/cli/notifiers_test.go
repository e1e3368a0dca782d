package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/logger"
)

// TestBuildNotifiersSkipsDisabled tests that only enabled channels get
// a notifier.
func TestBuildNotifiersSkipsDisabled(t *testing.T) {
	settings := domain.NotifySettings{
		Telegram: []domain.TelegramConfig{
			{BotToken: "12345:secret", ChatID: "-100200300", Enabled: true},
			{BotToken: "67890:secret", ChatID: "-100200301", Enabled: false},
		},
		Discord: []domain.DiscordConfig{
			{BotToken: "MTAx.YmFzZQ.c2ln", ChatID: "987654321098765432", ChatType: domain.DiscordChatChannel, Enabled: true},
		},
	}

	notifiers := buildNotifiers(settings, logger.Nop())

	assert.Len(t, notifiers, 2)
	names := []string{notifiers[0].Name(), notifiers[1].Name()}
	assert.Contains(t, names, "telegram")
	assert.Contains(t, names, "discord")
}

// TestBuildNotifiersEmpty tests the no-channel case.
func TestBuildNotifiersEmpty(t *testing.T) {
	assert.Empty(t, buildNotifiers(domain.NotifySettings{}, logger.Nop()))
}
