package cmd

import (
	"fmt"

	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/editor"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/deCybercop/wp-calypso/internal/placeholders"
	"github.com/deCybercop/wp-calypso/internal/tracking"
	"github.com/deCybercop/wp-calypso/pkg/templatemodal"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"tpl"},
	Short:   "Inspect and apply starter page templates",
	GroupID: "templates",
}

var templatesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTemplates(cmd)
		if err != nil {
			reportError(cmd, err)
			return err
		}
		if jsonOutput(cmd) {
			if cfg.Templates == nil {
				cfg.Templates = []models.Template{}
			}
			return output.JSON(cfg.Templates)
		}
		fmt.Printf("%s  vertical %s  segment %d\n",
			output.SectionHeader("Templates"), cfg.Vertical.ID, cfg.Segment.ID)
		for _, t := range cfg.Templates {
			fmt.Println(output.FormatTemplateShort(t))
		}
		if missing := placeholders.Missing(cfg.SiteInformation); len(missing) > 0 {
			output.Warning("site information has no value for: %v", missing)
		}
		return nil
	},
}

var templatesPreviewCmd = &cobra.Command{
	Use:   "preview <slug>",
	Short: "Render a template with site information substituted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTemplates(cmd)
		if err != nil {
			reportError(cmd, err)
			return err
		}
		tpl, ok := cfg.TemplatesBySlug()[args[0]]
		if !ok {
			err := fmt.Errorf("unknown template %q", args[0])
			reportError(cmd, err)
			return err
		}

		m := templatemodal.NewModel(cfg, templatemodal.Deps{Tracker: tracking.New(tracking.MultiSink{})})
		fmt.Println(output.SectionHeader(placeholders.Replace(tpl.Title, cfg.SiteInformation)))
		md := m.PreviewMarkdown(tpl.Slug)
		if md == "" {
			output.Info("(no content)")
			return nil
		}
		rendered, err := output.RenderMarkdown(md)
		if err != nil {
			fmt.Println(md)
			return nil
		}
		fmt.Println(rendered)
		return nil
	},
}

var templatesInsertCmd = &cobra.Command{
	Use:   "insert <slug>",
	Short: "Select a template for a post without the interactive modal",
	Long: `Runs the template selection flow headlessly: records the template choice
on the post, and when the template has content, substitutes site information,
resolves remote media into the local library, sets the post title, and
inserts the blocks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug := args[0]
		cfg, err := loadTemplates(cmd)
		if err != nil {
			reportError(cmd, err)
			return err
		}
		if _, ok := cfg.TemplatesBySlug()[slug]; !ok {
			err := fmt.Errorf("unknown template %q", slug)
			reportError(cmd, err)
			return err
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		id, err := postID(cmd)
		if err != nil {
			reportError(cmd, err)
			return err
		}
		ed, err := editor.Open(database, id)
		if err != nil {
			reportError(cmd, err)
			return err
		}

		rec := &tracking.Recorder{}
		m := templatemodal.NewModel(cfg, templatemodal.Deps{
			Editor:  ed,
			Assets:  newResolver(database),
			Tracker: newTracker(rec),
		})
		m = templatemodal.Drive(m, m.Init())
		m, next := m.SelectTemplate(slug)
		m = templatemodal.Drive(m, next)

		if m.State.Error != nil {
			reportError(cmd, m.State.Error)
			return m.State.Error
		}

		post := ed.Post()
		if jsonOutput(cmd) {
			return output.JSON(map[string]any{
				"post":     post,
				"inserted": m.Inserted(),
				"events":   rec.Names(),
			})
		}
		if !m.Inserted() {
			output.Success("recorded template %s on post %d (nothing to insert)", slug, post.ID)
		} else {
			output.Success("inserted %s into post %d: %q", slug, post.ID, post.Title)
		}
		for _, name := range rec.Names() {
			output.Info("  tracked %s", name)
		}
		return nil
	},
}

func init() {
	templatesCmd.PersistentFlags().String("templates", "", "Templates config file (default: project config or CALYPSO_TEMPLATES)")
	templatesInsertCmd.Flags().Int64("post", 0, "Post ID (default: project post)")
	templatesCmd.AddCommand(templatesListCmd, templatesPreviewCmd, templatesInsertCmd)
	rootCmd.AddCommand(templatesCmd)
}
