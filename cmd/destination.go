package cmd

import (
	"fmt"
	"strings"

	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/spf13/cobra"
)

var destinationCmd = &cobra.Command{
	Use:     "destination",
	Aliases: []string{"dest"},
	Short:   "Manage the stored signup destination",
	GroupID: "signup",
}

var destinationSetCmd = &cobra.Command{
	Use:   "set [destination]",
	Short: "Store the signup destination (prompts when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dest string
		if len(args) == 1 {
			dest = args[0]
			if err := validateDestination(dest); err != nil {
				reportError(cmd, err)
				return err
			}
		} else {
			var err error
			if dest, err = promptDestination(); err != nil {
				reportError(cmd, err)
				return err
			}
		}
		dest = strings.TrimSpace(dest)

		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		if err := database.PersistSignupDestination(dest); err != nil {
			reportError(cmd, err)
			return err
		}
		output.Success("destination set: %s", dest)
		return nil
	},
}

var destinationGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored signup destination",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		dest := database.RetrieveSignupDestination()
		if jsonOutput(cmd) {
			return output.JSON(map[string]string{"destination": dest})
		}
		fmt.Println(dest)
		return nil
	},
}

var destinationClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored signup destination",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		if err := database.ClearSignupDestination(); err != nil {
			reportError(cmd, err)
			return err
		}
		output.Success("destination cleared")
		return nil
	},
}

func init() {
	destinationCmd.AddCommand(destinationSetCmd, destinationGetCmd, destinationClearCmd)
	rootCmd.AddCommand(destinationCmd)
}
