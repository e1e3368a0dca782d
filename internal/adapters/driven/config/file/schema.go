package file

import (
	"fmt"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

// fileSettings is the TOML schema. It mirrors domain.AppSettings but
// keeps file-format concerns (key names, string enums) out of the
// domain types.
type fileSettings struct {
	Plates    []filePlate   `toml:"plates,omitempty"`
	Providers fileProviders `toml:"providers"`
	Notify    fileNotify    `toml:"notify,omitempty"`
}

type filePlate struct {
	Plate   string `toml:"plate"`
	Vehicle string `toml:"vehicle"`
	Owner   string `toml:"owner,omitempty"`
}

type fileProviders struct {
	Enabled        []string     `toml:"enabled"`
	TimeoutSeconds int          `toml:"timeout_seconds,omitempty"`
	CSGT           fileCSGT     `toml:"csgt"`
	ETraffic       fileETraffic `toml:"etraffic"`
}

type fileCSGT struct {
	CaptchaRetries int `toml:"captcha_retries,omitempty"`
}

type fileETraffic struct {
	CitizenID string `toml:"citizen_id,omitempty"`
	Password  string `toml:"password,omitempty"`
}

type fileNotify struct {
	Telegram []fileTelegram `toml:"telegram,omitempty"`
	Discord  []fileDiscord  `toml:"discord,omitempty"`
}

type fileTelegram struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

type fileDiscord struct {
	Enabled  bool   `toml:"enabled"`
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
	ChatType string `toml:"chat_type"`
}

func (f fileSettings) toDomain() (domain.AppSettings, error) {
	settings := domain.AppSettings{
		Providers: domain.ProviderSettings{
			TimeoutSeconds: f.Providers.TimeoutSeconds,
			CSGT: domain.CSGTSettings{
				CaptchaRetries: f.Providers.CSGT.CaptchaRetries,
			},
			ETraffic: domain.ETrafficSettings{
				CitizenID: f.Providers.ETraffic.CitizenID,
				Password:  f.Providers.ETraffic.Password,
			},
		},
	}

	for i, p := range f.Plates {
		class, err := domain.ParseVehicleClass(p.Vehicle)
		if err != nil {
			return domain.AppSettings{}, fmt.Errorf("%w: plates[%d].vehicle: %w", domain.ErrInvalidConfig, i, err)
		}
		plate := domain.PlateInfo{
			Plate:        p.Plate,
			VehicleClass: class,
			Owner:        p.Owner,
		}
		if err := plate.Validate(); err != nil {
			return domain.AppSettings{}, fmt.Errorf("%w: plates[%d]: %w", domain.ErrInvalidConfig, i, err)
		}
		settings.Plates = append(settings.Plates, plate)
	}

	for i, name := range f.Providers.Enabled {
		provider, err := domain.ParseProvider(name)
		if err != nil {
			return domain.AppSettings{}, fmt.Errorf("%w: providers.enabled[%d]: %w", domain.ErrInvalidConfig, i, err)
		}
		settings.Providers.Enabled = append(settings.Providers.Enabled, provider)
	}

	for _, t := range f.Notify.Telegram {
		settings.Notify.Telegram = append(settings.Notify.Telegram, domain.TelegramConfig{
			BotToken: t.BotToken,
			ChatID:   t.ChatID,
			Enabled:  t.Enabled,
		})
	}
	for _, d := range f.Notify.Discord {
		settings.Notify.Discord = append(settings.Notify.Discord, domain.DiscordConfig{
			BotToken: d.BotToken,
			ChatID:   d.ChatID,
			ChatType: domain.DiscordChatType(d.ChatType),
			Enabled:  d.Enabled,
		})
	}

	return settings, nil
}

func fromDomain(settings domain.AppSettings) fileSettings {
	out := fileSettings{
		Providers: fileProviders{
			TimeoutSeconds: settings.Providers.TimeoutSeconds,
			CSGT: fileCSGT{
				CaptchaRetries: settings.Providers.CSGT.CaptchaRetries,
			},
			ETraffic: fileETraffic{
				CitizenID: settings.Providers.ETraffic.CitizenID,
				Password:  settings.Providers.ETraffic.Password,
			},
		},
	}

	for _, p := range settings.Plates {
		out.Plates = append(out.Plates, filePlate{
			Plate:   p.Plate,
			Vehicle: p.VehicleClass.String(),
			Owner:   p.Owner,
		})
	}
	for _, p := range settings.Providers.Enabled {
		out.Providers.Enabled = append(out.Providers.Enabled, p.String())
	}
	for _, t := range settings.Notify.Telegram {
		out.Notify.Telegram = append(out.Notify.Telegram, fileTelegram{
			Enabled:  t.Enabled,
			BotToken: t.BotToken,
			ChatID:   t.ChatID,
		})
	}
	for _, d := range settings.Notify.Discord {
		out.Notify.Discord = append(out.Notify.Discord, fileDiscord{
			Enabled:  d.Enabled,
			BotToken: d.BotToken,
			ChatID:   d.ChatID,
			ChatType: string(d.ChatType),
		})
	}

	return out
}
