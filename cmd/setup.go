package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/deCybercop/wp-calypso/internal/assets"
	"github.com/deCybercop/wp-calypso/internal/config"
	"github.com/deCybercop/wp-calypso/internal/db"
	"github.com/deCybercop/wp-calypso/internal/models"
	"github.com/deCybercop/wp-calypso/internal/output"
	"github.com/deCybercop/wp-calypso/internal/tracking"
	"github.com/spf13/cobra"
)

var settings *config.Settings

// setupLogging loads env settings and installs the default slog handler
func setupLogging(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}
	settings = s
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: s.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// loadTemplates resolves the templates file from the flag, the project
// config, or CALYPSO_TEMPLATES, in that order
func loadTemplates(cmd *cobra.Command) (*config.StarterPageTemplates, error) {
	dir := getBaseDir()
	path, _ := cmd.Flags().GetString("templates")
	if path == "" {
		if proj, err := config.Load(dir); err == nil && proj.TemplatesFile != "" {
			path = proj.TemplatesFile
		}
	}
	if path == "" {
		path = settings.TemplatesFile
	}
	return config.LoadTemplates(config.ResolvePath(dir, path))
}

// loadState reads the client state tree from path or the project config
func loadState(path string) (*models.State, error) {
	dir := getBaseDir()
	if path == "" {
		if proj, err := config.Load(dir); err == nil {
			path = proj.StateFile
		}
	}
	if path == "" {
		return &models.State{}, nil
	}
	data, err := os.ReadFile(config.ResolvePath(dir, path))
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return &state, nil
}

// newTracker sends events to the log and, when configured, the tracks endpoint
func newTracker(extra ...tracking.Sink) *tracking.Tracker {
	sinks := tracking.MultiSink{tracking.LogSink{}}
	if settings.TracksURL != "" {
		sinks = append(sinks, tracking.NewHTTPSink(settings.TracksURL, settings.TracksSecret))
	}
	sinks = append(sinks, extra...)
	return tracking.New(sinks)
}

func newResolver(database *db.DB) *assets.Resolver {
	return &assets.Resolver{
		Fetcher:     assets.NewHTTPFetcher(settings.FetchTimeout),
		Store:       database,
		Concurrency: settings.AssetConcurrency,
		Timeout:     settings.AssetTimeout,
	}
}

// postID picks the --post flag or the project's default post
func postID(cmd *cobra.Command) (int64, error) {
	if id, _ := cmd.Flags().GetInt64("post"); id > 0 {
		return id, nil
	}
	proj, err := config.Load(getBaseDir())
	if err != nil {
		return 0, err
	}
	if proj.PostID == 0 {
		return 0, fmt.Errorf("no post selected: pass --post or run 'calypso post create'")
	}
	return proj.PostID, nil
}

// reportError prints err for humans, or as a JSON error object with --json
func reportError(cmd *cobra.Command, err error) {
	if jsonOutput(cmd) {
		output.JSONError(errorCode(err), err.Error())
		return
	}
	output.Error("%v", err)
}

func errorCode(err error) string {
	var validation *config.ValidationError
	var resolution *assets.ResolutionError
	switch {
	case errors.Is(err, db.ErrNotFound):
		return output.ErrCodeNotFound
	case errors.As(err, &validation):
		return output.ErrCodeInvalidConfig
	case errors.As(err, &resolution):
		return output.ErrCodeAssetError
	case errors.Is(err, db.ErrNoDatabase):
		return output.ErrCodeDatabaseError
	default:
		return output.ErrCodeInvalidInput
	}
}
