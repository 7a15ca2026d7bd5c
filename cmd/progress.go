package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:     "progress",
	Short:   "Inspect and record signup step progress",
	GroupID: "signup",
}

var progressListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded signup steps in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		steps, err := database.GetProgress()
		if err != nil {
			reportError(cmd, err)
			return err
		}
		if jsonOutput(cmd) {
			if steps == nil {
				steps = []models.StepState{}
			}
			return output.JSON(steps)
		}
		if len(steps) == 0 {
			output.Info("no signup progress recorded")
			return nil
		}
		for _, step := range steps {
			fmt.Println(output.FormatStep(step))
		}
		return nil
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set <step>",
	Short: "Record the status of a signup step",
	Long: `Record the status of a signup step. Without --status the status and URL
are prompted for.

Examples:
  calypso progress set domains --status completed --url /start/domains
  calypso progress set plans --status in-progress --provides cartItem`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step := models.StepState{StepName: args[0]}
		status, _ := cmd.Flags().GetString("status")
		step.FormData.URL, _ = cmd.Flags().GetString("url")
		if provides, _ := cmd.Flags().GetString("provides"); provides != "" {
			for _, dep := range strings.Split(provides, ",") {
				if dep = strings.TrimSpace(dep); dep != "" {
					step.ProvidedDependencies = append(step.ProvidedDependencies, dep)
				}
			}
		}

		if status == "" {
			if err := promptStep(&step); err != nil {
				reportError(cmd, err)
				return err
			}
		} else {
			step.Status = models.StepStatus(status)
		}
		step.LastUpdated = time.Now().UnixMilli()

		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		if err := database.SaveStep(step); err != nil {
			reportError(cmd, err)
			return err
		}
		output.Success("%s", output.FormatStep(step))
		return nil
	},
}

var progressClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recorded signup progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		if err := database.ClearProgress(); err != nil {
			reportError(cmd, err)
			return err
		}
		output.Success("signup progress cleared")
		return nil
	},
}

func init() {
	progressSetCmd.Flags().String("status", "", "Step status: completed, processing, pending, in-progress, invalid")
	progressSetCmd.Flags().String("url", "", "URL the step was completed at")
	progressSetCmd.Flags().String("provides", "", "Comma-separated dependencies the step provides")
	progressCmd.AddCommand(progressListCmd, progressSetCmd, progressClearCmd)
	rootCmd.AddCommand(progressCmd)
}
