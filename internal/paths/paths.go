// Package paths resolves the application's logical directories to
// filesystem locations.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Resolver resolves named logical directories. Implementations may fail when
// the OS environment is misconfigured (e.g. no home directory).
type Resolver interface {
	// DataDir is the per-user application data directory (stores, models,
	// recordings, the secure vault).
	DataDir() (string, error)
	// LogDir is where date-stamped application log files live.
	LogDir() (string, error)
	// CacheDir is the per-user cache directory for the application.
	CacheDir() (string, error)
	// HomeDir is the user's home directory.
	HomeDir() (string, error)
	// LocalDataDir is the non-roaming data directory. On Windows this is
	// %LOCALAPPDATA%; elsewhere it matches DataDir.
	LocalDataDir() (string, error)
	// TempDir is the OS temporary directory.
	TempDir() (string, error)
}

// Overrides pins individual directories, bypassing OS resolution. Empty
// fields keep the platform default.
type Overrides struct {
	DataDir  string
	LogDir   string
	CacheDir string
}

// OSResolver derives directories from the app identifier following each
// platform's conventions.
type OSResolver struct {
	identifier string
	goos       string
	overrides  Overrides
}

var _ Resolver = (*OSResolver)(nil)

// NewOS creates a resolver for the current platform.
func NewOS(identifier string, overrides Overrides) *OSResolver {
	return &OSResolver{identifier: identifier, goos: runtime.GOOS, overrides: overrides}
}

// NewOSForPlatform creates a resolver for an explicit platform identifier.
// Used by tests; production code goes through NewOS.
func NewOSForPlatform(identifier, goos string, overrides Overrides) *OSResolver {
	return &OSResolver{identifier: identifier, goos: goos, overrides: overrides}
}

func (r *OSResolver) HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}

func (r *OSResolver) DataDir() (string, error) {
	if r.overrides.DataDir != "" {
		return r.overrides.DataDir, nil
	}
	switch r.goos {
	case "darwin":
		home, err := r.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", r.identifier), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appData, r.identifier), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, r.identifier), nil
		}
		home, err := r.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", r.identifier), nil
	}
}

func (r *OSResolver) LogDir() (string, error) {
	if r.overrides.LogDir != "" {
		return r.overrides.LogDir, nil
	}
	switch r.goos {
	case "darwin":
		home, err := r.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Logs", r.identifier), nil
	case "windows":
		local, err := r.LocalDataDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(local, "logs"), nil
	default:
		data, err := r.DataDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(data, "logs"), nil
	}
}

func (r *OSResolver) CacheDir() (string, error) {
	if r.overrides.CacheDir != "" {
		return r.overrides.CacheDir, nil
	}
	switch r.goos {
	case "darwin":
		home, err := r.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Caches", r.identifier), nil
	case "windows":
		local, err := r.LocalDataDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(local, "cache"), nil
	default:
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, r.identifier), nil
		}
		home, err := r.HomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".cache", r.identifier), nil
	}
}

func (r *OSResolver) LocalDataDir() (string, error) {
	if r.goos == "windows" {
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			return "", fmt.Errorf("LOCALAPPDATA is not set")
		}
		return filepath.Join(local, r.identifier), nil
	}
	return r.DataDir()
}

func (r *OSResolver) TempDir() (string, error) {
	return os.TempDir(), nil
}

// Static is a fixed-location resolver. Empty fields resolve to an error, which
// lets tests simulate a misconfigured environment per directory.
type Static struct {
	Data      string
	Log       string
	Cache     string
	Home      string
	LocalData string
	Temp      string
}

var _ Resolver = (*Static)(nil)

func (s *Static) DataDir() (string, error)      { return staticDir(s.Data, "data") }
func (s *Static) LogDir() (string, error)       { return staticDir(s.Log, "log") }
func (s *Static) CacheDir() (string, error)     { return staticDir(s.Cache, "cache") }
func (s *Static) HomeDir() (string, error)      { return staticDir(s.Home, "home") }
func (s *Static) LocalDataDir() (string, error) { return staticDir(s.LocalData, "local data") }
func (s *Static) TempDir() (string, error)      { return staticDir(s.Temp, "temp") }

func staticDir(v, name string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("%s directory is not configured", name)
	}
	return v, nil
}
