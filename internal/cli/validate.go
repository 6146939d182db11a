package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cohortlab/channelscout/internal/config"
	"github.com/cohortlab/channelscout/internal/validate"
)

// ValidateCmd creates the validate command.
func ValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check discovery output CSVs for structural problems",
		Long: `Validate scans the discovery output for malformed rows, missing headers,
empty identifiers, and duplicate channels across files. It never calls the
API and never modifies anything.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir := cfg.OutputDir
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(dir)
		},
	}

	return cmd
}

func runValidate(dir string) error {
	report, err := validate.Dir(dir)
	if err != nil {
		return err
	}

	fmt.Printf("Checked %d files, %d rows.\n", report.FilesChecked, report.RowsChecked)
	if report.OK() {
		fmt.Println("No problems found.")
		return nil
	}

	for _, f := range report.Findings {
		fmt.Println(f)
	}
	return fmt.Errorf("%d problems found", len(report.Findings))
}
