package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/deCybercop/wp-calypso/internal/models"
)

const destinationKey = "signup_destination"

// PersistSignupDestination stores where the user lands after signup
func (db *DB) PersistSignupDestination(destination string) error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`INSERT INTO signup_state (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			destinationKey, destination, toMillis(time.Now()))
		if err != nil {
			return fmt.Errorf("persist signup destination: %w", err)
		}
		return nil
	})
}

// RetrieveSignupDestination returns the stored destination, or "" when none
// was stored. Read errors are logged and treated as absent.
func (db *DB) RetrieveSignupDestination() string {
	var dest string
	err := db.conn.QueryRow(`SELECT value FROM signup_state WHERE key = ?`, destinationKey).Scan(&dest)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Debug("signup destination: read", "err", err)
		}
		return ""
	}
	return dest
}

// ClearSignupDestination removes the stored destination
func (db *DB) ClearSignupDestination() error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`DELETE FROM signup_state WHERE key = ?`, destinationKey)
		return err
	})
}

// SaveStep records the progress of a signup step. New steps are appended
// after existing ones; known steps keep their position.
func (db *DB) SaveStep(step models.StepState) error {
	if step.StepName == "" {
		return fmt.Errorf("save step: step name is required")
	}
	if !models.IsValidStepStatus(step.Status) {
		return fmt.Errorf("save step %s: invalid status %q", step.StepName, step.Status)
	}
	if step.LastUpdated == 0 {
		step.LastUpdated = time.Now().UnixMilli()
	}
	deps := step.ProvidedDependencies
	if deps == nil {
		deps = []string{}
	}
	depsJSON, err := json.Marshal(deps)
	if err != nil {
		return err
	}

	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`INSERT INTO signup_progress
			(step_name, status, form_url, provided_dependencies, last_updated, position)
			VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM signup_progress))
			ON CONFLICT(step_name) DO UPDATE SET
				status = excluded.status,
				form_url = excluded.form_url,
				provided_dependencies = excluded.provided_dependencies,
				last_updated = excluded.last_updated`,
			step.StepName, string(step.Status), step.FormData.URL, string(depsJSON), step.LastUpdated)
		if err != nil {
			return fmt.Errorf("save step %s: %w", step.StepName, err)
		}
		return nil
	})
}

// GetProgress returns every recorded step in order
func (db *DB) GetProgress() ([]models.StepState, error) {
	rows, err := db.conn.Query(`SELECT step_name, status, form_url, provided_dependencies, last_updated
		FROM signup_progress ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	defer rows.Close()

	var steps []models.StepState
	for rows.Next() {
		var (
			step models.StepState
			deps string
		)
		if err := rows.Scan(&step.StepName, &step.Status, &step.FormData.URL, &deps, &step.LastUpdated); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(deps), &step.ProvidedDependencies); err != nil {
			return nil, fmt.Errorf("decode dependencies for %s: %w", step.StepName, err)
		}
		if len(step.ProvidedDependencies) == 0 {
			step.ProvidedDependencies = nil
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

// ClearProgress removes all recorded steps
func (db *DB) ClearProgress() error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`DELETE FROM signup_progress`)
		return err
	})
}
