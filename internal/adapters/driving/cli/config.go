package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

var (
	addPlateVehicle string
	addPlateOwner   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `View and edit the watch list, data sources and notification channels.

Without a subcommand, shows the current configuration.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configAddPlateCmd = &cobra.Command{
	Use:   "add-plate [plate]",
	Short: "Add a plate to the watch list",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigAddPlate,
}

var configRemovePlateCmd = &cobra.Command{
	Use:   "remove-plate [plate]",
	Short: "Remove a plate from the watch list",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigRemovePlate,
}

var configETrafficCmd = &cobra.Command{
	Use:   "set-etraffic [citizen-id]",
	Short: "Store the etraffic.gtelict.vn account",
	Long: `Stores the citizen ID and password for etraffic.gtelict.vn.
The password is prompted without echo and written to the configuration
file, which is kept owner-readable only.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigETraffic,
}

func init() {
	configAddPlateCmd.Flags().StringVar(&addPlateVehicle, "vehicle", "", "vehicle class (car, motorbike, electric_motorbike)")
	configAddPlateCmd.Flags().StringVar(&addPlateOwner, "owner", "", "owner name shown in notifications")
	_ = configAddPlateCmd.MarkFlagRequired("vehicle")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configAddPlateCmd)
	configCmd.AddCommand(configRemovePlateCmd)
	configCmd.AddCommand(configETrafficCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Init(); err != nil {
		return err
	}
	cmd.Printf("Wrote default configuration to %s\n", settingsService.Path())
	cmd.Println("Add plates with 'cpn config add-plate' or edit the file directly.")
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	cmd.Printf("Configuration: %s\n\n", settingsService.Path())

	cmd.Println("[Plates]")
	if len(settings.Plates) == 0 {
		cmd.Println("  (none)")
	}
	for _, plate := range settings.Plates {
		line := fmt.Sprintf("  %-14s %s", plate.NormalizedPlate(), plate.VehicleClass.DisplayName())
		if plate.Owner != "" {
			line += " — " + plate.Owner
		}
		cmd.Println(line)
	}
	cmd.Println()

	cmd.Println("[Providers]")
	names := make([]string, 0, len(settings.Providers.Enabled))
	for _, p := range settings.Providers.Enabled {
		names = append(names, p.String())
	}
	cmd.Printf("  Enabled: %s\n", strings.Join(names, ", "))
	cmd.Printf("  Timeout: %s\n", settings.Providers.Timeout())
	cmd.Printf("  Captcha retries: %d (csgt.vn)\n", settings.Providers.Retries())
	if settings.Providers.ETraffic.IsConfigured() {
		cmd.Printf("  eTraffic account: %s\n", maskSecret(settings.Providers.ETraffic.CitizenID))
	} else {
		cmd.Println("  eTraffic account: (not set)")
	}
	cmd.Println()

	cmd.Println("[Notify]")
	if len(settings.Notify.Telegram)+len(settings.Notify.Discord) == 0 {
		cmd.Println("  (none)")
	}
	for _, tg := range settings.Notify.Telegram {
		cmd.Printf("  telegram  chat %s  bot %s  %s\n", tg.ChatID, maskSecret(tg.BotToken), channelState(tg.Enabled))
	}
	for _, dc := range settings.Notify.Discord {
		cmd.Printf("  discord   %s %s  bot %s  %s\n", dc.ChatType, dc.ChatID, maskSecret(dc.BotToken), channelState(dc.Enabled))
	}

	return nil
}

func runConfigAddPlate(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	class, err := domain.ParseVehicleClass(addPlateVehicle)
	if err != nil {
		return err
	}
	plate := domain.PlateInfo{Plate: args[0], VehicleClass: class, Owner: addPlateOwner}
	if err := settingsService.AddPlate(plate); err != nil {
		return err
	}

	cmd.Printf("Added %s (%s) to the watch list.\n", plate.NormalizedPlate(), class.DisplayName())
	return nil
}

func runConfigRemovePlate(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.RemovePlate(args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s from the watch list.\n", domain.NormalizePlate(args[0]))
	return nil
}

func runConfigETraffic(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Password: ")
	password := readPassword()
	cmd.Println()

	if err := settingsService.SetETrafficCredentials(args[0], password); err != nil {
		return err
	}
	cmd.Println("eTraffic account saved.")
	cmd.Println("Enable etraffic.gtelict.vn under [providers] to query it.")
	return nil
}

// Helper functions.

func channelState(enabled bool) string {
	if enabled {
		return styleSuccess.Render("enabled")
	}
	return styleMuted.Render("disabled")
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when stdin is a terminal.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input.
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
