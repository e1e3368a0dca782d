package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/check-phat-nguoi/cpn-core/internal/adapters/driven/ocr/tesseract"
	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/services"
)

var (
	checkVehicle   string
	checkProviders []string
	checkTimeout   int
	checkNotify    bool
	checkJSON      bool
)

var checkCmd = &cobra.Command{
	Use:   "check [plate]",
	Short: "Look up traffic violations",
	Long: `Queries every enabled data source for traffic violations.

With a plate argument, checks that single plate; --vehicle selects its
class. Without arguments, checks every plate on the configured watch
list. Each source answers independently: a slow or broken source fails
on its own and never hides the answers of the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkVehicle, "vehicle", "", "vehicle class for the plate argument (car, motorbike, electric_motorbike)")
	checkCmd.Flags().StringArrayVarP(&checkProviders, "provider", "p", nil, "query only these sources (repeatable)")
	checkCmd.Flags().IntVarP(&checkTimeout, "timeout", "t", 0, "per-source timeout in seconds")
	checkCmd.Flags().BoolVar(&checkNotify, "notify", false, "send results to configured notification channels")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	plates, err := platesToCheck(settings, args)
	if err != nil {
		return err
	}

	if len(checkProviders) > 0 {
		enabled := make([]domain.Provider, 0, len(checkProviders))
		for _, name := range checkProviders {
			provider, err := domain.ParseProvider(name)
			if err != nil {
				return err
			}
			enabled = append(enabled, provider)
		}
		settings.Providers.Enabled = enabled
	}
	if checkTimeout > 0 {
		settings.Providers.TimeoutSeconds = checkTimeout
	}

	solver := tesseract.New(tesseract.Config{Logger: rootLogger})
	engines, err := services.BuildEngines(settings.Providers, solver, rootLogger)
	if err != nil {
		return fmt.Errorf("build sources: %w", err)
	}

	lookup := services.NewLookupService(engines, settings.Providers.Timeout(), rootLogger)
	defer func() {
		if err := lookup.Close(); err != nil {
			rootLogger.Warn().Err(err).Msg("close engines")
		}
	}()

	results := lookup.Check(cmd.Context(), plates)

	if checkJSON {
		if err := outputCheckJSON(cmd, results); err != nil {
			return err
		}
	} else {
		outputCheckText(cmd, results)
	}

	if checkNotify {
		notifiers := buildNotifiers(settings.Notify, rootLogger)
		if len(notifiers) == 0 {
			return errors.New("no notification channels enabled; configure one under [notify] first")
		}
		dispatch := services.NewDispatchService(notifiers, rootLogger)
		if err := dispatch.Dispatch(cmd.Context(), results); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
	}

	return nil
}

// platesToCheck resolves which plates to query: the single plate named
// on the command line, or the configured watch list.
func platesToCheck(settings domain.AppSettings, args []string) ([]domain.PlateInfo, error) {
	if len(args) == 0 {
		if checkVehicle != "" {
			return nil, errors.New("--vehicle only applies when a plate argument is given")
		}
		if len(settings.Plates) == 0 {
			return nil, errors.New("no plates on the watch list; pass a plate or run 'cpn config add-plate'")
		}
		return settings.Plates, nil
	}

	if checkVehicle == "" {
		return nil, errors.New("--vehicle is required when a plate argument is given")
	}
	class, err := domain.ParseVehicleClass(checkVehicle)
	if err != nil {
		return nil, err
	}

	plate := domain.PlateInfo{Plate: args[0], VehicleClass: class}
	if err := plate.Validate(); err != nil {
		return nil, err
	}
	// A plate already on the watch list keeps its configured owner.
	if known, ok := settings.FindPlate(args[0]); ok && known.VehicleClass == class {
		plate.Owner = known.Owner
	}
	return []domain.PlateInfo{plate}, nil
}

func outputCheckText(cmd *cobra.Command, results []domain.LookupResult) {
	for i, result := range results {
		if i > 0 {
			cmd.Println()
		}
		title := result.Plate.NormalizedPlate() + " (" + result.Plate.VehicleClass.DisplayName() + ")"
		if result.Plate.Owner != "" {
			title += " — " + result.Plate.Owner
		}
		cmd.Println(styleTitle.Render(title))

		for _, res := range result.Results {
			cmd.Printf("  %s %s %s\n",
				styleProvider.Render(res.Provider.String()),
				statusText(res),
				styleMuted.Render("("+res.Elapsed.Round(10*time.Millisecond).String()+")"))

			for j, record := range res.Records {
				printRecord(cmd, record, j+1)
			}
		}
	}
}

func statusText(res domain.ProviderResult) string {
	switch res.Status {
	case domain.StatusFound:
		unresolved := len(res.Unresolved())
		if unresolved > 0 {
			return styleWarning.Render(fmt.Sprintf("%d vi phạm, %d chưa xử phạt", len(res.Records), unresolved))
		}
		return styleSuccess.Render(fmt.Sprintf("%d vi phạm, tất cả đã xử phạt", len(res.Records)))
	case domain.StatusNotFound:
		return styleSuccess.Render("không có vi phạm")
	default:
		return styleError.Render("tra cứu thất bại (" + string(res.Failure.Kind) + ")")
	}
}

func printRecord(cmd *cobra.Command, record domain.ViolationRecord, ordinal int) {
	status := styleWarning.Render("chưa xử phạt")
	if record.Resolved {
		status = styleSuccess.Render("đã xử phạt")
	}
	cmd.Printf("    %d. %s  %s\n", ordinal, record.Time.Format(domain.ViolationTimeLayout), status)
	if record.Violation != "" {
		cmd.Printf("       %s\n", record.Violation)
	}
	if record.Location != "" {
		cmd.Printf("       %s\n", styleMuted.Render(record.Location))
	}
	if record.EnforcementUnit != "" {
		cmd.Printf("       %s\n", styleMuted.Render(record.EnforcementUnit))
	}
	for _, office := range record.ResolutionOffices {
		cmd.Printf("       %s\n", styleMuted.Render(office))
	}
}

// JSON views keep the output schema stable independent of the domain
// structs.
type checkOutput struct {
	RunID   string           `json:"run_id"`
	Plate   string           `json:"plate"`
	Vehicle string           `json:"vehicle"`
	Owner   string           `json:"owner,omitempty"`
	Results []providerOutput `json:"results"`
}

type providerOutput struct {
	Provider  string         `json:"provider"`
	Status    string         `json:"status"`
	ElapsedMS int64          `json:"elapsed_ms"`
	Failure   string         `json:"failure,omitempty"`
	Records   []recordOutput `json:"records,omitempty"`
}

type recordOutput struct {
	Plate             string    `json:"plate"`
	PlateColor        string    `json:"plate_color,omitempty"`
	Time              time.Time `json:"time"`
	Location          string    `json:"location,omitempty"`
	Violation         string    `json:"violation,omitempty"`
	Resolved          bool      `json:"resolved"`
	EnforcementUnit   string    `json:"enforcement_unit,omitempty"`
	ResolutionOffices []string  `json:"resolution_offices,omitempty"`
}

func outputCheckJSON(cmd *cobra.Command, results []domain.LookupResult) error {
	out := make([]checkOutput, 0, len(results))
	for _, result := range results {
		entry := checkOutput{
			RunID:   result.RunID,
			Plate:   result.Plate.NormalizedPlate(),
			Vehicle: result.Plate.VehicleClass.String(),
			Owner:   result.Plate.Owner,
		}
		for _, res := range result.Results {
			p := providerOutput{
				Provider:  res.Provider.String(),
				Status:    string(res.Status),
				ElapsedMS: res.Elapsed.Milliseconds(),
			}
			if res.Failure != nil {
				p.Failure = res.Failure.Error()
			}
			for _, record := range res.Records {
				p.Records = append(p.Records, recordOutput{
					Plate:             record.Plate,
					PlateColor:        record.PlateColor,
					Time:              record.Time,
					Location:          record.Location,
					Violation:         record.Violation,
					Resolved:          record.Resolved,
					EnforcementUnit:   record.EnforcementUnit,
					ResolutionOffices: record.ResolutionOffices,
				})
			}
			entry.Results = append(entry.Results, p)
		}
		out = append(out, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
