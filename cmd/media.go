package cmd

import (
	"os"

	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/spf13/cobra"
)

var mediaCmd = &cobra.Command{
	Use:     "media",
	Short:   "Inspect media resolved into the local library",
	GroupID: "templates",
}

var mediaShowCmd = &cobra.Command{
	Use:   "show <media-id>",
	Short: "Show a media record, optionally writing its bytes to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		media, err := database.GetMedia(args[0])
		if err != nil {
			reportError(cmd, err)
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			data, err := database.MediaData(media.ID)
			if err != nil {
				reportError(cmd, err)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				reportError(cmd, err)
				return err
			}
		}

		if jsonOutput(cmd) {
			return output.JSON(media)
		}
		output.Info("%s", output.FormatMediaShort(*media))
		return nil
	},
}

func init() {
	mediaShowCmd.Flags().String("out", "", "Write the stored bytes to this file")
	mediaCmd.AddCommand(mediaShowCmd)
	rootCmd.AddCommand(mediaCmd)
}
