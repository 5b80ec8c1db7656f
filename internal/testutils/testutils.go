package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/nfrund/storefront/internal/config"
)

// ProjectRoot walks up from the working directory to the directory holding go.mod.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}
}

// ConfigForTests loads .env.test into the test environment and returns a
// validated configuration. Tests are skipped when the file is absent or when
// running with -short.
func ConfigForTests(t *testing.T) config.Provider {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	env, err := godotenv.Read(filepath.Join(ProjectRoot(t), ".env.test"))
	if err != nil {
		t.Skipf("integration environment unavailable: %v", err)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	return cfg
}
