package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"goodreads-insights/config"
)

// ConfigCheck is the result of validate-config.
type ConfigCheck struct {
	Valid     bool   `json:"valid" yaml:"valid"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	InputCSV  string `json:"input_csv" yaml:"input_csv"`
	StoreKind string `json:"store_kind" yaml:"store_kind"`
	PubYears  [2]int `json:"pub_year_window" yaml:"pub_year_window,flow"`
}

// NewValidateConfigCommand creates the validate-config command.
func NewValidateConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "validate-config",
		Short:         "Check the environment configuration",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true, // the result is printed by the command itself
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			check := ConfigCheck{
				Valid:     true,
				InputCSV:  cfg.InputCSV,
				StoreKind: cfg.StoreKind,
				PubYears:  [2]int{cfg.PubYearMin, cfg.PubYearMax},
			}
			verr := cfg.Validate()
			if verr != nil {
				check.Valid = false
				check.Error = verr.Error()
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == FormatText {
				if verr != nil {
					fmt.Fprintf(out, "✗ %v\n", verr)
				} else {
					input := cfg.InputCSV
					if input == "" {
						input = "(bundled sample)"
					}
					fmt.Fprintf(out, "✓ Configuration valid (input: %s, store: %s, publication years %d-%d)\n",
						input, cfg.StoreKind, cfg.PubYearMin, cfg.PubYearMax)
				}
			} else if err := writeStructured(out, rootOpts.Format, check); err != nil {
				return err
			}
			return verr
		},
	}
}
