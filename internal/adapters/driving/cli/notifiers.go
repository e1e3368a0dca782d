package cli

import (
	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/adapters/driven/notify/discord"
	"github.com/check-phat-nguoi/cpn-core/internal/adapters/driven/notify/telegram"
	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
)

// buildNotifiers constructs one notifier per enabled channel. Disabled
// entries stay in the file but are skipped here.
func buildNotifiers(settings domain.NotifySettings, log zerolog.Logger) []driven.Notifier {
	var notifiers []driven.Notifier
	for _, tg := range settings.Telegram {
		if !tg.Enabled {
			continue
		}
		notifiers = append(notifiers, telegram.New(telegram.Config{Settings: tg, Logger: log}))
	}
	for _, dc := range settings.Discord {
		if !dc.Enabled {
			continue
		}
		notifiers = append(notifiers, discord.New(discord.Config{Settings: dc, Logger: log}))
	}
	return notifiers
}
