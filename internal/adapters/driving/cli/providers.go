package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List known data sources",
	Long: `Lists every data source the tool can query, whether it is enabled in
the configuration, and what it needs to run.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	enabled := make(map[domain.Provider]bool, len(settings.Providers.Enabled))
	for _, p := range settings.Providers.Enabled {
		enabled[p] = true
	}

	for _, p := range domain.AllProviders() {
		state := styleMuted.Width(10).Render("disabled")
		if enabled[p] {
			state = styleSuccess.Width(10).Render("enabled")
		}

		note := ""
		switch {
		case p.RequiresCaptcha():
			note = styleMuted.Render("solves a captcha per lookup")
		case p.RequiresCredentials():
			note = styleMuted.Render("needs account credentials")
		}

		cmd.Printf("  %s %s %s\n", styleProvider.Width(24).Render(p.String()), state, note)
	}
	return nil
}
