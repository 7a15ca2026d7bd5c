package selectors

import (
	"time"

	"github.com/deCybercop/wp-calypso/internal/cartitems"
	"github.com/deCybercop/wp-calypso/internal/models"
)

const (
	// NewSiteWindow is how long after creation a site still counts as new
	NewSiteWindow = 30 * time.Minute
	// storeDesignType marks sites created through the store signup flow
	storeDesignType = "store"
)

// ChecklistLaunch is the earliest creation date for checklist-eligible sites
var ChecklistLaunch = time.Date(2018, time.August, 1, 0, 0, 0, 0, time.UTC)

// now is swapped in tests
var now = time.Now

// SiteQuerier answers site questions against a state tree
type SiteQuerier interface {
	IsNewSite(state *models.State, siteID int64) bool
	IsEligibleForDotcomChecklist(state *models.State, siteID int64) bool
}

// StateQuerier answers site questions from the sites recorded in the state tree
type StateQuerier struct{}

// IsNewSite reports whether the site was created within NewSiteWindow
func (StateQuerier) IsNewSite(state *models.State, siteID int64) bool {
	return IsNewSite(state, siteID)
}

// IsEligibleForDotcomChecklist reports whether the site gets the onboarding checklist
func (StateQuerier) IsEligibleForDotcomChecklist(state *models.State, siteID int64) bool {
	return IsEligibleForDotcomChecklist(state, siteID)
}

// IsNewSite reports whether the site was created within NewSiteWindow
func IsNewSite(state *models.State, siteID int64) bool {
	site, ok := state.Site(siteID)
	if !ok || site.CreatedAt.IsZero() {
		return false
	}
	return now().Sub(site.CreatedAt) <= NewSiteWindow
}

// IsEligibleForDotcomChecklist reports whether the site is a WordPress.com
// site (not Jetpack), not a store, and created after the checklist launched.
func IsEligibleForDotcomChecklist(state *models.State, siteID int64) bool {
	site, ok := state.Site(siteID)
	if !ok {
		return false
	}
	if site.IsJetpack || site.DesignType == storeDesignType {
		return false
	}
	plan := models.CartItem{ProductSlug: site.PlanSlug}
	if site.PlanSlug != "" && cartitems.IsCategory(plan, models.CategoryEcommercePlan) {
		return false
	}
	return !site.CreatedAt.Before(ChecklistLaunch)
}
