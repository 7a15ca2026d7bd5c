package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/deCybercop/wp-calypso/internal/models"
	"gopkg.in/yaml.v3"
)

// StarterPageTemplates is the configuration handed to the template modal.
// It is loaded once at startup and not modified afterwards.
type StarterPageTemplates struct {
	SiteInformation models.SiteInformation
	Templates       []models.Template
	Vertical        models.Vertical
	Segment         models.Segment
	TracksUserData  *models.TracksUser
}

// rawTemplates distinguishes missing keys from empty values
type rawTemplates struct {
	SiteInformation *map[string]string `yaml:"siteInformation"`
	Templates       *[]models.Template `yaml:"templates"`
	Vertical        models.Vertical    `yaml:"vertical"`
	Segment         models.Segment     `yaml:"segment"`
	TracksUserData  *models.TracksUser `yaml:"tracksUserData"`
}

// ValidationError describes one problem with a configuration file
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// LoadTemplates reads and validates a templates file (YAML or JSON)
func LoadTemplates(path string) (*StarterPageTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates config: %w", err)
	}
	cfg, err := ParseTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseTemplates decodes and validates templates configuration
func ParseTemplates(data []byte) (*StarterPageTemplates, error) {
	var raw rawTemplates
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse templates config: %w", err)
	}

	var errs []error
	if raw.Templates == nil {
		errs = append(errs, &ValidationError{Field: "templates", Reason: "required"})
	}
	if raw.SiteInformation == nil {
		errs = append(errs, &ValidationError{Field: "siteInformation", Reason: "required"})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg := &StarterPageTemplates{
		SiteInformation: models.SiteInformation(*raw.SiteInformation),
		Templates:       *raw.Templates,
		Vertical:        raw.Vertical,
		Segment:         raw.Segment,
		TracksUserData:  raw.TracksUserData,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every template can be addressed and displayed
func (c *StarterPageTemplates) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Templates))
	for i, t := range c.Templates {
		field := fmt.Sprintf("templates[%d]", i)
		switch {
		case strings.TrimSpace(t.Slug) == "":
			errs = append(errs, &ValidationError{Field: field + ".slug", Reason: "required"})
		case seen[t.Slug]:
			errs = append(errs, &ValidationError{Field: field + ".slug", Reason: fmt.Sprintf("duplicate slug %q", t.Slug)})
		}
		seen[t.Slug] = true
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, &ValidationError{Field: field + ".title", Reason: "required"})
		}
	}
	if c.TracksUserData != nil && c.TracksUserData.UserID == "" {
		errs = append(errs, &ValidationError{Field: "tracksUserData.userid", Reason: "required when tracksUserData is set"})
	}
	return errors.Join(errs...)
}

// TemplatesBySlug indexes the templates by slug
func (c *StarterPageTemplates) TemplatesBySlug() map[string]models.Template {
	bySlug := make(map[string]models.Template, len(c.Templates))
	for _, t := range c.Templates {
		bySlug[t.Slug] = t
	}
	return bySlug
}
