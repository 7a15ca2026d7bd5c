package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/deCybercop/wp-calypso/internal/selectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// itemFlag collects repeated --item values into cart items.
// Format: slug[:key=value]... with keys category, meta, receipt_for_domain.
type itemFlag struct {
	items []models.CartItem
}

var _ pflag.Value = (*itemFlag)(nil)

func (f *itemFlag) String() string {
	slugs := make([]string, len(f.items))
	for i, it := range f.items {
		slugs[i] = it.ProductSlug
	}
	return strings.Join(slugs, ",")
}

func (f *itemFlag) Type() string { return "item" }

func (f *itemFlag) Set(v string) error {
	item, err := parseItem(v)
	if err != nil {
		return err
	}
	f.items = append(f.items, item)
	return nil
}

func parseItem(v string) (models.CartItem, error) {
	parts := strings.Split(v, ":")
	item := models.CartItem{ProductSlug: strings.TrimSpace(parts[0])}
	if item.ProductSlug == "" {
		return item, fmt.Errorf("item %q: product slug required", v)
	}
	for _, kv := range parts[1:] {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return item, fmt.Errorf("item %q: expected key=value, got %q", v, kv)
		}
		switch key {
		case "category":
			c := models.ProductCategory(val)
			if !models.IsValidCategory(c) {
				return item, fmt.Errorf("item %q: unknown category %q", v, val)
			}
			item.Category = c
		case "meta":
			item.Meta = val
		case "receipt_for_domain":
			var receipt any = val
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				receipt = n
			}
			item.Extra = map[string]any{"receipt_for_domain": receipt}
		default:
			return item, fmt.Errorf("item %q: unknown key %q", v, key)
		}
	}
	return item, nil
}

var eligibilityCmd = &cobra.Command{
	Use:   "eligibility",
	Short: "Check whether a site goes to the stored signup destination",
	Long: `Evaluates the signup destination rule for a site and cart.

The cart comes from --cart (JSON file with a "products" array) and/or repeated
--item flags. The site comes from the state file (--state or the project
config) and --site.

Examples:
  calypso eligibility --site 42 --item personal-bundle
  calypso eligibility --site 42 --item gapps:receipt_for_domain=7 --item personal-bundle
  calypso eligibility --site 42 --cart cart.json --json`,
	GroupID: "signup",
	RunE: func(cmd *cobra.Command, args []string) error {
		cart, err := readCart(cmd)
		if err != nil {
			reportError(cmd, err)
			return err
		}

		statePath, _ := cmd.Flags().GetString("state")
		state, err := loadState(statePath)
		if err != nil {
			reportError(cmd, err)
			return err
		}

		siteID, _ := cmd.Flags().GetInt64("site")
		if siteID == 0 {
			if proj, err := config.Load(getBaseDir()); err == nil {
				siteID = proj.SiteID
			}
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			reportError(cmd, err)
			return err
		}
		defer database.Close()

		eligible := selectors.IsEligibleForSignupDestination(state, siteID, cart, database)
		destination := database.RetrieveSignupDestination()

		if jsonOutput(cmd) {
			return output.JSON(map[string]any{
				"site_id":     siteID,
				"destination": destination,
				"eligible":    eligible,
				"items":       len(cart.Products),
			})
		}

		fmt.Printf("site %d  %s\n", siteID, output.FormatEligibility(eligible))
		if destination == "" {
			output.Info("no signup destination stored")
		} else {
			output.Info("destination: %s", destination)
		}
		return nil
	},
}

func readCart(cmd *cobra.Command) (*models.Cart, error) {
	cart := &models.Cart{}
	if path, _ := cmd.Flags().GetString("cart"); path != "" {
		data, err := os.ReadFile(config.ResolvePath(getBaseDir(), path))
		if err != nil {
			return nil, fmt.Errorf("read cart: %w", err)
		}
		if err := json.Unmarshal(data, cart); err != nil {
			return nil, fmt.Errorf("parse cart %s: %w", path, err)
		}
	}
	if f, ok := cmd.Flags().Lookup("item").Value.(*itemFlag); ok {
		cart.Products = append(cart.Products, f.items...)
	}
	return cart, nil
}

func init() {
	rootCmd.AddCommand(eligibilityCmd)
	eligibilityCmd.Flags().Int64("site", 0, "Site ID (default: project site)")
	eligibilityCmd.Flags().String("cart", "", "Cart JSON file")
	eligibilityCmd.Flags().String("state", "", "Client state JSON file (default: project state file)")
	eligibilityCmd.Flags().Var(&itemFlag{}, "item", "Cart item slug[:key=value]... (repeatable)")
}
