package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workspace documents against their schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		report, err := services.Validation.ValidateAll(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if validateJSON {
			if err := printJSON(report); err != nil {
				return err
			}
		} else if report.Valid() {
			fmt.Println(goodStyle.Render(fmt.Sprintf("Workspace is valid (%d files checked)", len(report.Checked))))
		} else {
			fmt.Println(badStyle.Render(fmt.Sprintf("%d problems found", len(report.Issues))))
			for _, issue := range report.Issues {
				fmt.Printf("  - %s\n", issue)
			}
		}
		if !report.Valid() {
			return &CLIError{Message: "workspace is invalid", ExitCode: ExitInvalid}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(validateCmd)
}
