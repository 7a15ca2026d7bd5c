// Package output provides styled terminal output helpers (success, error,
// warning, template and post formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/deCybercop/wp-calypso/internal/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	stepStyles   = map[models.StepStatus]lipgloss.Style{
		models.StepCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.StepProcessing: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		models.StepPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		models.StepInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.StepInvalid:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeInvalidInput  = "invalid_input"
	ErrCodeInvalidConfig = "invalid_config"
	ErrCodeDatabaseError = "database_error"
	ErrCodeAssetError    = "asset_error"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	data, _ := json.Marshal(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
	fmt.Println(string(data))
}

// FormatEligibility renders a yes/no badge
func FormatEligibility(eligible bool) string {
	if eligible {
		return successStyle.Render("[eligible]")
	}
	return errorStyle.Render("[not eligible]")
}

// FormatStepStatus formats a signup step status with color
func FormatStepStatus(s models.StepStatus) string {
	style, ok := stepStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render(fmt.Sprintf("[%s]", s))
}

// FormatStep formats a signup step on one line
func FormatStep(step models.StepState) string {
	parts := []string{titleStyle.Render(step.StepName), FormatStepStatus(step.Status)}
	if step.FormData.URL != "" {
		parts = append(parts, step.FormData.URL)
	}
	if len(step.ProvidedDependencies) > 0 {
		parts = append(parts, subtleStyle.Render("provides "+strings.Join(step.ProvidedDependencies, ", ")))
	}
	if step.LastUpdated > 0 {
		parts = append(parts, subtleStyle.Render(FormatTimeAgo(time.UnixMilli(step.LastUpdated))))
	}
	return strings.Join(parts, "  ")
}

// FormatTemplateShort formats a template as "slug  title  [content]"
func FormatTemplateShort(t models.Template) string {
	parts := []string{titleStyle.Render(t.Slug), t.Title}
	if t.HasContent() {
		parts = append(parts, subtleStyle.Render("[content]"))
	} else {
		parts = append(parts, subtleStyle.Render("[no content]"))
	}
	return strings.Join(parts, "  ")
}

// FormatPostShort formats a post as "#id  title  template  updated"
func FormatPostShort(p models.Post) string {
	title := p.Title
	if title == "" {
		title = subtleStyle.Render("(untitled)")
	}
	parts := []string{titleStyle.Render(fmt.Sprintf("#%d", p.ID)), title}
	if slug, ok := p.Meta["_starter_page_template"].(string); ok && slug != "" {
		parts = append(parts, subtleStyle.Render("template:"+slug))
	}
	parts = append(parts, subtleStyle.Render(FormatTimeAgo(p.UpdatedAt)))
	return strings.Join(parts, "  ")
}

// FormatMediaShort formats a media record as "id  type  size  source"
func FormatMediaShort(m models.Media) string {
	return strings.Join([]string{
		titleStyle.Render(m.ID),
		m.MimeType,
		fmt.Sprintf("%d bytes", m.Size),
		subtleStyle.Render(m.SourceURL),
	}, "  ")
}

// SectionHeader renders a bold section title
func SectionHeader(title string) string {
	return titleStyle.Render(title)
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
