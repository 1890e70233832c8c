// File: internal/workflow/main_test.go
package workflow_test

import (
	"testing"

	"go.uber.org/goleak"

	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/observability"
)

// TestMain bootstraps the global logger and verifies no goroutines leak from
// the replay engine's timers.
func TestMain(m *testing.M) {
	observability.ResetForTest()

	cfg := config.NewDefaultConfig().Logger
	cfg.Level = "debug"
	cfg.LogFile = ""
	cfg.Format = "console"
	observability.InitializeLogger(cfg)

	goleak.VerifyTestMain(m)
}
