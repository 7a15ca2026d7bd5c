package models

import (
	"time"
)

// ProductCategory tags a cart line item with the kind of product it sells
type ProductCategory string

const (
	CategoryDomainMapping      ProductCategory = "domain_mapping"
	CategoryDomainRegistration ProductCategory = "domain_registration"
	CategoryDomainTransfer     ProductCategory = "domain_transfer"
	CategoryPlan               ProductCategory = "plan"
	CategoryConciergeSession   ProductCategory = "concierge_session"
	CategoryEcommercePlan      ProductCategory = "ecommerce_plan"
	CategoryGoogleApps         ProductCategory = "google_apps"
	CategoryOther              ProductCategory = "other"
)

// AllCategories returns every known product category in display order
func AllCategories() []ProductCategory {
	return []ProductCategory{
		CategoryDomainMapping,
		CategoryDomainRegistration,
		CategoryDomainTransfer,
		CategoryPlan,
		CategoryConciergeSession,
		CategoryEcommercePlan,
		CategoryGoogleApps,
		CategoryOther,
	}
}

// IsValidCategory reports whether c is a known product category
func IsValidCategory(c ProductCategory) bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// CartItem is one line item in a shopping cart
type CartItem struct {
	ProductSlug          string            `json:"product_slug"`
	ProductID            int64             `json:"product_id,omitempty"`
	Category             ProductCategory   `json:"category,omitempty"` // explicit tag; derived from slug when empty
	Meta                 string            `json:"meta,omitempty"`     // usually the domain the item applies to
	IsDomainRegistration bool              `json:"is_domain_registration,omitempty"`
	Extra                map[string]any    `json:"extra,omitempty"`
	Attributes           map[string]string `json:"attributes,omitempty"`
}

// Cart is the ordered set of items a user intends to purchase
type Cart struct {
	Products []CartItem `json:"products"`
}

// Site is a site record in the client state tree
type Site struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	IsJetpack  bool      `json:"is_jetpack,omitempty"`
	PlanSlug   string    `json:"plan_slug,omitempty"`
	DesignType string    `json:"design_type,omitempty"`
}

// State is the client-side state tree consulted by selectors
type State struct {
	Sites map[int64]Site `json:"sites"`
}

// Site returns the site with the given ID
func (s *State) Site(siteID int64) (Site, bool) {
	if s == nil || s.Sites == nil {
		return Site{}, false
	}
	site, ok := s.Sites[siteID]
	return site, ok
}

// StepStatus is the progress status of a signup step
type StepStatus string

const (
	StepCompleted  StepStatus = "completed"
	StepProcessing StepStatus = "processing"
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepInvalid    StepStatus = "invalid"
)

// IsValidStepStatus reports whether s is one of the allowed step statuses
func IsValidStepStatus(s StepStatus) bool {
	switch s {
	case StepCompleted, StepProcessing, StepPending, StepInProgress, StepInvalid:
		return true
	}
	return false
}

// StepFormData holds the form values submitted on a signup step
type StepFormData struct {
	URL string `json:"url"`
}

// StepState is the recorded progress of one signup step
type StepState struct {
	StepName             string       `json:"stepName"`
	Status               StepStatus   `json:"status"`
	FormData             StepFormData `json:"formData"`
	LastUpdated          int64        `json:"lastUpdated"` // unix millis
	ProvidedDependencies []string     `json:"providedDependencies,omitempty"`
}

// Template is a starter page template offered in the template modal
type Template struct {
	Slug        string  `json:"slug" yaml:"slug"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Content     *string `json:"content,omitempty" yaml:"content,omitempty"` // nil means nothing to insert
	Preview     string  `json:"preview,omitempty" yaml:"preview,omitempty"`
	PreviewAlt  string  `json:"preview_alt,omitempty" yaml:"preview_alt,omitempty"`
}

// HasContent reports whether the template carries a body to insert
func (t Template) HasContent() bool {
	return t.Content != nil
}

// SiteInformation maps placeholder token names to replacement text
type SiteInformation map[string]string

// Vertical identifies the site vertical the templates were chosen for
type Vertical struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Segment identifies the signup segment the user belongs to
type Segment struct {
	ID   int64  `json:"id" yaml:"id"`
	Slug string `json:"slug,omitempty" yaml:"slug,omitempty"`
}

// TracksUser identifies the user for tracking events
type TracksUser struct {
	UserID   string `json:"userid" yaml:"userid"`
	Username string `json:"username" yaml:"username"`
}

// Block is one unit of structured document content
type Block struct {
	ClientID    string         `json:"clientId"`
	Name        string         `json:"name"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	InnerHTML   string         `json:"innerHTML,omitempty"`
	InnerBlocks []Block        `json:"innerBlocks,omitempty"`
	// InnerContent interleaves markup with nil markers where inner blocks sit
	InnerContent []*string `json:"innerContent,omitempty"`
}

// Post is a document being edited
type Post struct {
	ID        int64          `json:"id"`
	Title     string         `json:"title"`
	Meta      map[string]any `json:"meta"`
	Blocks    []Block        `json:"blocks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Media is an asset stored in the local media library
type Media struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
