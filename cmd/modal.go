package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/editor"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/deCybercop/wp-calypso/pkg/templatemodal"
	"github.com/deCybercop/wp-calypso/pkg/templatemodal/keymap"
	"github.com/spf13/cobra"
)

var modalCmd = &cobra.Command{
	Use:   "modal",
	Short: "Open the template selection modal for a post",
	Long: `Open the interactive template selection modal.

Key bindings:
  ↑/↓ or j/k   Move between templates
  g g / G      First / last template
  Enter        Use the focused template
  p            Toggle preview
  Esc / q      Close without a template
  ?            Toggle help

Bindings can be overridden in .calypso/keymap.json.`,
	GroupID: "templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !output.IsTerminal() {
			err := fmt.Errorf("modal needs a terminal; use 'calypso templates insert' instead")
			reportError(cmd, err)
			return err
		}

		cfg, err := loadTemplates(cmd)
		if err != nil {
			reportError(cmd, err)
			return err
		}
		if len(cfg.Templates) == 0 {
			output.Warning("no templates configured")
			return nil
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

		keys := keymap.NewRegistry()
		keymap.RegisterDefaults(keys)
		keyCfg, err := keymap.LoadConfig(keymap.ConfigPath(getBaseDir()))
		if err != nil {
			output.Warning("ignoring keymap config: %v", err)
		} else {
			keymap.ApplyConfig(keys, keyCfg)
		}

		model := templatemodal.NewModel(cfg, templatemodal.Deps{
			Editor:  ed,
			Assets:  newResolver(database),
			Tracker: newTracker(),
			Keymap:  keys,
		})
		model.QuitOnClose = true

		p := tea.NewProgram(model, tea.WithAltScreen())
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("error running modal: %w", err)
		}

		if insertSucceeded(final) {
			post := ed.Post()
			output.Success("post %d: %q", post.ID, post.Title)
		}
		return nil
	},
}

// insertSucceeded reports whether the modal program ended with a template in the post
func insertSucceeded(final tea.Model) bool {
	m, ok := final.(templatemodal.Model)
	return ok && m.Inserted() && m.State.Error == nil
}

func init() {
	modalCmd.Flags().String("templates", "", "Templates config file (default: project config or CALYPSO_TEMPLATES)")
	modalCmd.Flags().Int64("post", 0, "Post ID (default: project post)")
	rootCmd.AddCommand(modalCmd)
}
