// Package selectors derives answers from the client state tree, the cart,
// and stored signup progress.
package selectors

import (
	"strings"

	"github.com/deCybercop/wp-calypso/internal/cartitems"
	"github.com/deCybercop/wp-calypso/internal/models"
)

const checklistPathFragment = "/checklist/"

// DestinationStore returns the post-signup destination saved by an earlier step
type DestinationStore interface {
	RetrieveSignupDestination() string
}

// Rule decides whether the post-checkout checklist destination is shown
type Rule struct {
	Sites        SiteQuerier
	Destinations DestinationStore
}

// NewRule returns a rule that answers site questions from the state tree
func NewRule(destinations DestinationStore) *Rule {
	return &Rule{Sites: StateQuerier{}, Destinations: destinations}
}

// IsEligibleForSignupDestination reports whether the user should be sent to
// the stored signup destination after checkout.
func (r *Rule) IsEligibleForSignupDestination(state *models.State, siteID int64, cart *models.Cart) bool {
	if len(cartitems.GetAllCartItems(cart)) > 0 {
		if cartitems.HasDomainMapping(cart) ||
			cartitems.HasDomainRegistration(cart) ||
			cartitems.HasTransferProduct(cart) ||
			(!cartitems.HasPlan(cart) && !cartitems.HasConciergeSession(cart)) ||
			cartitems.HasEcommercePlan(cart) {
			return false
		}
	}

	if cartitems.HasGoogleApps(cart) {
		var receipt any
		if apps := cartitems.GetGoogleApps(cart); len(apps) > 0 {
			receipt = cartitems.Lookup(apps[0], "receipt_for_domain")
		}
		if !cartitems.Truthy(receipt) {
			return false
		}
	}

	destination := ""
	if r.Destinations != nil {
		destination = r.Destinations.RetrieveSignupDestination()
	}

	if destination != "" && strings.Contains(destination, checklistPathFragment) {
		return r.Sites.IsNewSite(state, siteID) && r.Sites.IsEligibleForDotcomChecklist(state, siteID)
	}

	if destination == "/" {
		return false
	}
	return r.Sites.IsNewSite(state, siteID)
}

// IsEligibleForSignupDestination evaluates the rule with the default site predicates
func IsEligibleForSignupDestination(state *models.State, siteID int64, cart *models.Cart, destinations DestinationStore) bool {
	return NewRule(destinations).IsEligibleForSignupDestination(state, siteID, cart)
}
