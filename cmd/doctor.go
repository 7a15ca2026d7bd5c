package cmd

import (
	"fmt"

	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/placeholders"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Run diagnostic checks for the project setup",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		runDoctor(cmd)
		return nil
	},
}

func runDoctor(cmd *cobra.Command) {
	// 1. Templates config
	tpls, err := loadTemplates(cmd)
	if err != nil {
		fmt.Printf("Templates config ....... FAIL (%v)\n", err)
	} else {
		fmt.Printf("Templates config ....... OK (%d templates)\n", len(tpls.Templates))
		if missing := placeholders.Missing(tpls.SiteInformation); len(missing) > 0 {
			fmt.Printf("Site information ....... WARN (no value for %v)\n", missing)
		} else {
			fmt.Printf("Site information ....... OK\n")
		}
	}

	// 2. Local database
	baseDir := getBaseDir()
	database, err := db.Open(baseDir)
	dbOK := err == nil
	if dbOK {
		defer database.Close()
		if v, err := database.GetSchemaVersion(); err != nil {
			fmt.Printf("Local database ......... FAIL (%v)\n", err)
			dbOK = false
		} else if v != db.SchemaVersion {
			fmt.Printf("Local database ......... WARN (schema %d, expected %d)\n", v, db.SchemaVersion)
		} else {
			fmt.Printf("Local database ......... OK\n")
		}
	} else {
		fmt.Printf("Local database ......... FAIL (%v)\n", err)
	}

	// 3. Default post
	proj, err := config.Load(baseDir)
	switch {
	case err != nil:
		fmt.Printf("Default post ........... FAIL (%v)\n", err)
	case proj.PostID == 0:
		fmt.Printf("Default post ........... WARN (none; run 'calypso post create')\n")
	case !dbOK:
		fmt.Printf("Default post ........... SKIP\n")
	default:
		if _, err := database.GetPost(proj.PostID); err != nil {
			fmt.Printf("Default post ........... FAIL (%v)\n", err)
		} else {
			fmt.Printf("Default post ........... OK (#%d)\n", proj.PostID)
		}
	}

	// 4. Signup destination
	if !dbOK {
		fmt.Printf("Signup destination ..... SKIP\n")
	} else if dest := database.RetrieveSignupDestination(); dest == "" {
		fmt.Printf("Signup destination ..... WARN (not set)\n")
	} else {
		fmt.Printf("Signup destination ..... OK (%s)\n", dest)
	}

	// 5. Tracking
	if settings.TracksURL == "" {
		fmt.Printf("Tracking ............... OK (log only)\n")
	} else if settings.TracksSecret == "" {
		fmt.Printf("Tracking ............... WARN (%s, unsigned)\n", settings.TracksURL)
	} else {
		fmt.Printf("Tracking ............... OK (%s)\n", settings.TracksURL)
	}
}

func init() {
	doctorCmd.Flags().String("templates", "", "Templates config file (default: project config or CALYPSO_TEMPLATES)")
	rootCmd.AddCommand(doctorCmd)
}
