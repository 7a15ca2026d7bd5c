package cmd

import (
	"testing"

	"github.com/deCybercop/wp-calypso/internal/db"
)

func TestDestinationSetTrims(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CALYPSO_DIR", dir)
	database, err := db.Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	database.Close()

	if _, err := runCLI(t, "destination", "set", "  /\n"); err != nil {
		t.Fatalf("destination set failed: %v", err)
	}

	database, err = db.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()
	if got := database.RetrieveSignupDestination(); got != "/" {
		t.Errorf("stored destination = %q, want %q", got, "/")
	}
}
