package reset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ideaplexa/voicetyprd/internal/vault"
)

// legacyModelDirNames are sidecar model directories older releases left in
// the data dir.
var legacyModelDirNames = []string{
	"parakeet-tdt-0.6b-v3",
	"parakeet-tdt-0.6b-v2",
}

func (o *Orchestrator) stepClearStores(ctx context.Context, rep *report) {
	o.clearStore(rep, o.cfg.Settings, "Settings store", "settings")
	o.clearStore(rep, o.cfg.History, "Transcriptions store", "transcriptions")
}

func (o *Orchestrator) clearStore(rep *report, s Store, label, name string) {
	if s == nil {
		// Store never opened; nothing to clear, same as an absent handle.
		return
	}
	s.Clear()
	if err := s.Save(); err != nil {
		rep.fail(fmt.Sprintf("Failed to save cleared %s store: %v", name, err))
		return
	}
	rep.clearedItem(label)
}

func (o *Orchestrator) stepRemoveStoresDir(ctx context.Context, rep *report) {
	dataDir, err := o.cfg.Paths.DataDir()
	if err != nil {
		o.logger.Warn("skipping stores directory, data dir unresolved", "error", err)
		return
	}
	o.removeDir(rep, filepath.Join(dataDir, "stores"), "Stores directory", "stores directory")
}

func (o *Orchestrator) stepRemoveDataDirs(ctx context.Context, rep *report) {
	dataDir, err := o.cfg.Paths.DataDir()
	if err != nil {
		o.logger.Warn("skipping data directories, data dir unresolved", "error", err)
		return
	}

	o.removeDir(rep, filepath.Join(dataDir, "models"), "Downloaded models", "models directory")
	for _, name := range legacyModelDirNames {
		o.removeDir(rep, filepath.Join(dataDir, name), "Parakeet model data", "Parakeet directory")
	}
	o.removeDir(rep, filepath.Join(dataDir, "recordings"), "Audio recordings", "recordings directory")
}

func (o *Orchestrator) stepClearLicense(ctx context.Context, rep *report) {
	if o.cfg.Vault == nil {
		return
	}
	err := o.cfg.Vault.Delete("license")
	if errors.Is(err, vault.ErrVaultMissing) {
		// First run, or a previous reset already removed the vault file.
		o.logger.Debug("vault never written, nothing to clear")
		return
	}
	if err != nil {
		rep.fail(fmt.Sprintf("Failed to clear license: %v", err))
		return
	}
	rep.clearedItem("License data")
}

func (o *Orchestrator) stepRemoveVaultFile(ctx context.Context, rep *report) {
	if o.cfg.Vault == nil {
		return
	}
	path := o.cfg.Vault.Path()
	if !fileExists(path) {
		return
	}
	if err := os.Remove(path); err != nil {
		rep.fail(fmt.Sprintf("Failed to remove secure storage: %v", err))
		return
	}
	rep.clearedItem("Secure storage (API keys)")
}

func (o *Orchestrator) stepRemoveCacheDir(ctx context.Context, rep *report) {
	cacheDir, err := o.cfg.Paths.CacheDir()
	if err != nil {
		o.logger.Warn("skipping cache directory, cache dir unresolved", "error", err)
		return
	}
	o.removeDir(rep, cacheDir, "Cache directory", "cache")
}

// --- darwin ---

func (o *Orchestrator) stepDarwinSidecarCaches(ctx context.Context, rep *report) {
	home, err := o.cfg.Paths.HomeDir()
	if err != nil {
		o.logger.Warn("skipping sidecar caches, home dir unresolved", "error", err)
		return
	}
	sidecarPaths := []string{
		filepath.Join(home, "Library", "Application Support", "FluidAudio"),
		filepath.Join(home, "Library", "Application Support", "parakeet-tdt-0.6b-v3-coreml"),
		filepath.Join(home, "Library", "Application Support", "parakeet-tdt-0.6b-v2-coreml"),
		filepath.Join(home, "Library", "Caches", "FluidAudio"),
	}
	for _, p := range sidecarPaths {
		o.removeDir(rep, p, "FluidAudio model cache", "FluidAudio cache")
	}
}

func (o *Orchestrator) stepDarwinPreferences(ctx context.Context, rep *report) {
	// The defaults domain may simply not exist; only a confirmed run counts.
	res := o.cfg.Shell.Run(ctx, "defaults", "delete", o.cfg.Identifier)
	if res.Attempted && res.Succeeded {
		rep.clearedItem("System preferences")
	}

	home, err := o.cfg.Paths.HomeDir()
	if err != nil {
		return
	}
	plist := filepath.Join(home, "Library", "Preferences", o.cfg.Identifier+".plist")
	if !fileExists(plist) {
		return
	}
	if err := os.Remove(plist); err != nil {
		rep.fail(fmt.Sprintf("Failed to remove preferences file: %v", err))
		return
	}
	rep.clearedItem("Preferences plist")
}

func (o *Orchestrator) stepDarwinAuxData(ctx context.Context, rep *report) {
	home, err := o.cfg.Paths.HomeDir()
	if err != nil {
		o.logger.Warn("skipping auxiliary data, home dir unresolved", "error", err)
		return
	}

	o.removeDir(rep,
		filepath.Join(home, "Library", "Saved Application State", o.cfg.Identifier+".savedState"),
		"Window state", "saved state")
	o.removeDir(rep,
		filepath.Join(home, "Library", "Logs", o.cfg.Identifier),
		"Application logs", "logs")
	o.removeDir(rep,
		filepath.Join(home, "Library", "WebKit", o.cfg.Identifier),
		"WebKit data", "WebKit data")
	o.removeDir(rep,
		filepath.Join(home, "Library", "Caches", "com.apple.nsurlsessiond", "Downloads", o.cfg.Identifier),
		"Download cache", "download cache")
}

func (o *Orchestrator) stepDarwinPermissions(ctx context.Context, rep *report) {
	script := fmt.Sprintf(
		"do shell script \"tccutil reset All %s\" with administrator privileges",
		o.cfg.Identifier)
	res := o.cfg.Shell.Run(ctx, "osascript", "-e", script)
	switch {
	case !res.Attempted:
		rep.fail(fmt.Sprintf("Could not reset permissions: %s", res.Output))
	case res.Succeeded:
		rep.clearedItem("System permissions")
	default:
		// The user cancelling the admin prompt is informational, not an error.
		o.logger.Info("permission reset cancelled by user")
	}
}

// --- windows ---

func (o *Orchestrator) stepWindowsRegistry(ctx context.Context, rep *report) {
	res := o.cfg.Shell.Run(ctx, "reg", "delete",
		fmt.Sprintf(`HKCU\Software\%s`, o.cfg.Identifier), "/f")
	if res.Attempted && res.Succeeded {
		rep.clearedItem("Registry settings")
	}
}

func (o *Orchestrator) stepWindowsAuxData(ctx context.Context, rep *report) {
	if local, err := o.cfg.Paths.LocalDataDir(); err == nil {
		o.removeDir(rep, filepath.Join(local, "logs"), "Application logs", "logs")
	}
	if tmp, err := o.cfg.Paths.TempDir(); err == nil {
		o.removeDir(rep, filepath.Join(tmp, o.cfg.Identifier+".WebView2"),
			"WebView2 cache", "WebView2 cache")
	}
}

// --- linux ---

func (o *Orchestrator) stepLinuxDconf(ctx context.Context, rep *report) {
	res := o.cfg.Shell.Run(ctx, "dconf", "reset", "-f",
		fmt.Sprintf("/com/ideaplexa/%s/", o.cfg.Identifier))
	if res.Attempted && res.Succeeded {
		rep.clearedItem("GSettings/dconf preferences")
	}
}

// stepPermissionsNotApplicable records the no-op marker so reports stay
// comparable across platforms.
func (o *Orchestrator) stepPermissionsNotApplicable(platform string) func(context.Context, *report) {
	return func(ctx context.Context, rep *report) {
		rep.clearedItem(fmt.Sprintf("System permissions (N/A on %s)", platform))
	}
}

// --- common tail ---

func (o *Orchestrator) stepClearRuntime(ctx context.Context, rep *report) {
	o.cfg.Runtime.ClearAll()
	rep.clearedItem("Runtime state")
}

func (o *Orchestrator) stepClearKeyCache(ctx context.Context, rep *report) {
	if err := o.cfg.KeyCache.ClearAll(); err != nil {
		rep.fail(fmt.Sprintf("Failed to clear API key cache: %v", err))
		return
	}
	rep.clearedItem("AI API key cache")
}

func (o *Orchestrator) stepDarwinRefreshPrefs(ctx context.Context, rep *report) {
	// Best effort only; the outcome is not recorded either way.
	res := o.cfg.Shell.Run(ctx, "killall", "cfprefsd")
	if res.Attempted && res.Succeeded {
		o.logger.Debug("refreshed cfprefsd")
	}
}

func (o *Orchestrator) stepEmitEvent(ctx context.Context, rep *report) {
	payload := struct {
		RunID string `json:"run_id"`
	}{RunID: rep.runID}
	if err := o.cfg.Emitter.Emit(EventAppReset, payload); err != nil {
		rep.fail(fmt.Sprintf("Failed to emit reset event: %v", err))
	}
}

// removeDir deletes path if it exists. Absence is a no-op, neither a success
// nor an error entry.
func (o *Orchestrator) removeDir(rep *report, path, label, what string) {
	if !fileExists(path) {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		rep.fail(fmt.Sprintf("Failed to delete %s: %v", what, err))
		return
	}
	rep.clearedItem(label)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
