package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/output"
)

var errNotInteractive = errors.New("missing argument and stdout is not a terminal")

func validateDestination(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("destination is required")
	}
	if !strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("destination %q must be a path or an http(s) URL", s)
	}
	return nil
}

// promptDestination asks for a signup destination
func promptDestination() (string, error) {
	if !output.IsTerminal() {
		return "", errNotInteractive
	}
	var dest string
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Signup destination").
			Description("Where to send the user after checkout").
			Placeholder("/checklist/example.wordpress.com").
			Value(&dest).
			Validate(validateDestination),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(dest), nil
}

func stepStatusOptions() []huh.Option[string] {
	statuses := []models.StepStatus{
		models.StepPending, models.StepInProgress, models.StepProcessing,
		models.StepCompleted, models.StepInvalid,
	}
	opts := make([]huh.Option[string], len(statuses))
	for i, s := range statuses {
		opts[i] = huh.NewOption(string(s), string(s))
	}
	return opts
}

// promptStep fills in the status and URL of step interactively
func promptStep(step *models.StepState) error {
	if !output.IsTerminal() {
		return errNotInteractive
	}
	status := string(step.Status)
	if status == "" {
		status = string(models.StepCompleted)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Status").
			Options(stepStatusOptions()...).
			Value(&status),
		huh.NewInput().
			Title("URL").
			Placeholder("/start/" + step.StepName).
			Value(&step.FormData.URL),
	).Title("Step: " + step.StepName))
	if err := form.Run(); err != nil {
		return err
	}
	step.Status = models.StepStatus(status)
	return nil
}
