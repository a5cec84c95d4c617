// Package reset tears down all persisted and in-memory application state.
// Every teardown step is independently attempted and independently reported;
// no single failure aborts the run.
package reset

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/google/uuid"

	"github.com/ideaplexa/voicetyprd/internal/log"
	"github.com/ideaplexa/voicetyprd/internal/paths"
	"github.com/ideaplexa/voicetyprd/internal/shell"
)

// EventAppReset is emitted to the presentation layer when a run finishes.
const EventAppReset = "app-reset"

// Store is one named key-value store with independently failable clear and
// save phases.
type Store interface {
	Name() string
	Clear()
	Save() error
}

// Vault is the secure credential store. Delete must return
// vault.ErrVaultMissing when the backing file has never been written.
type Vault interface {
	Delete(key string) error
	Path() string
}

// KeyCache is the process-wide cache of validated API keys.
type KeyCache interface {
	ClearAll() error
}

// Runtime is the live transcription runtime manager. ClearAll acquires the
// manager's exclusive write lock internally and cannot fail.
type Runtime interface {
	ClearAll()
}

// Emitter delivers events to the presentation layer.
type Emitter interface {
	Emit(event string, data any) error
}

// Config wires the orchestrator's collaborators.
type Config struct {
	// Identifier is the OS-level bundle identifier whose preference records
	// and caches get cleared.
	Identifier string
	// Platform selects the capability table entry. Empty means the current
	// platform.
	Platform string

	Paths    paths.Resolver
	Settings Store // nil when the store failed to open; skipped like the original store handle
	History  Store
	Vault    Vault
	KeyCache KeyCache
	Runtime  Runtime
	Emitter  Emitter
	Shell    shell.Runner
}

// Orchestrator executes the fixed teardown sequence.
type Orchestrator struct {
	cfg    Config
	steps  []step
	logger *slog.Logger
}

// step is one (label, action) pair of the capability table.
type step struct {
	label string
	run   func(ctx context.Context, rep *report)
}

// New builds an orchestrator. The step sequence for the platform is selected
// here, once, so the whole contract lives in one place.
func New(cfg Config) *Orchestrator {
	if cfg.Platform == "" {
		cfg.Platform = runtime.GOOS
	}
	o := &Orchestrator{
		cfg:    cfg,
		logger: log.WithComponent("reset"),
	}
	o.steps = o.buildSteps()
	return o
}

// Run executes every step in order and returns the aggregate report. The call
// itself cannot fail: all step failures, including event emission, end up in
// Result.Errors.
func (o *Orchestrator) Run(ctx context.Context) Result {
	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)
	logger.Info("starting app data reset", "platform", o.cfg.Platform)

	rep := &report{runID: runID}
	for _, s := range o.steps {
		logger.Debug("running reset step", "step", s.label)
		s.run(ctx, rep)
	}

	res := rep.result()
	if res.Success {
		logger.Info("app data reset completed successfully",
			"cleared", len(res.ClearedItems))
	} else {
		logger.Warn("app data reset completed with errors",
			"cleared", len(res.ClearedItems), "errors", len(res.Errors))
	}
	return res
}

// Steps returns the selected step labels in execution order.
func (o *Orchestrator) Steps() []string {
	labels := make([]string, len(o.steps))
	for i, s := range o.steps {
		labels[i] = s.label
	}
	return labels
}

// buildSteps assembles the capability table: a common head, the
// platform-specific middle, and a common tail. Order matters only for report
// readability; the steps are independent.
func (o *Orchestrator) buildSteps() []step {
	head := []step{
		{"clear stores", o.stepClearStores},
		{"delete stores directory", o.stepRemoveStoresDir},
		{"delete model and recording data", o.stepRemoveDataDirs},
		{"clear license data", o.stepClearLicense},
		{"delete secure storage file", o.stepRemoveVaultFile},
		{"delete cache directory", o.stepRemoveCacheDir},
	}

	table := map[string][]step{
		"darwin": {
			{"delete sidecar model caches", o.stepDarwinSidecarCaches},
			{"clear system preferences", o.stepDarwinPreferences},
			{"clear auxiliary system data", o.stepDarwinAuxData},
			{"reset system permissions", o.stepDarwinPermissions},
		},
		"windows": {
			{"clear registry settings", o.stepWindowsRegistry},
			{"clear auxiliary system data", o.stepWindowsAuxData},
			{"reset system permissions", o.stepPermissionsNotApplicable("Windows")},
		},
		"linux": {
			{"clear dconf preferences", o.stepLinuxDconf},
			{"reset system permissions", o.stepPermissionsNotApplicable("Linux")},
		},
	}
	middle, ok := table[o.cfg.Platform]
	if !ok {
		// Unknown platform: no preference registry, no aux cleanup.
		middle = []step{
			{"reset system permissions", o.stepPermissionsNotApplicable(o.cfg.Platform)},
		}
	}

	tail := []step{
		{"clear runtime state", o.stepClearRuntime},
		{"clear API key cache", o.stepClearKeyCache},
	}
	if o.cfg.Platform == "darwin" {
		tail = append(tail, step{"refresh preferences daemon", o.stepDarwinRefreshPrefs})
	}
	tail = append(tail, step{"emit reset event", o.stepEmitEvent})

	steps := make([]step, 0, len(head)+len(middle)+len(tail))
	steps = append(steps, head...)
	steps = append(steps, middle...)
	steps = append(steps, tail...)
	return steps
}
