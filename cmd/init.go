package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a new calypso project",
	Long:    `Creates the local .calypso directory, the SQLite database, and the project config.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if _, err := os.Stat(filepath.Join(baseDir, ".calypso", "calypso.db")); err == nil {
			output.Warning(".calypso/ already exists")
			return nil
		}

		database, err := db.Initialize(baseDir)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		proj := &config.Project{}
		proj.TemplatesFile, _ = cmd.Flags().GetString("templates")
		proj.StateFile, _ = cmd.Flags().GetString("state")
		proj.SiteID, _ = cmd.Flags().GetInt64("site")
		if err := config.Save(baseDir, proj); err != nil {
			output.Error("failed to write config: %v", err)
			return err
		}

		fmt.Println("INITIALIZED .calypso/")

		addToGitignore(filepath.Join(baseDir, ".gitignore"))
		return nil
	},
}

// addToGitignore appends .calypso/ to an existing .gitignore
func addToGitignore(path string) {
	content, err := os.ReadFile(path)
	if err != nil || strings.Contains(string(content), ".calypso/") {
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		f.WriteString("\n")
	}
	f.WriteString(".calypso/\n")
}

func init() {
	initCmd.Flags().String("templates", "", "Templates config file to use by default")
	initCmd.Flags().String("state", "", "Client state JSON file to use by default")
	initCmd.Flags().Int64("site", 0, "Default site ID")
	rootCmd.AddCommand(initCmd)
}
