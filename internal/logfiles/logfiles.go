// Package logfiles manages the application's date-stamped log files: retention
// sweeping and opening the folder for the user.
package logfiles

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ideaplexa/voicetyprd/internal/log"
	"github.com/ideaplexa/voicetyprd/internal/paths"
)

const (
	filePrefix = "voicetypr-"
	fileSuffix = ".log"
	dateLayout = "2006-01-02"
)

// Spawner launches a detached OS process. Satisfied by shell.ExecRunner.
type Spawner interface {
	Spawn(name string, args ...string) error
}

// Service owns the log directory.
type Service struct {
	paths   paths.Resolver
	spawner Spawner
	goos    string
	now     func() time.Time
	logger  *slog.Logger
}

// New builds a log file service for the current platform.
func New(resolver paths.Resolver, spawner Spawner) *Service {
	return &Service{
		paths:   resolver,
		spawner: spawner,
		goos:    runtime.GOOS,
		now:     time.Now,
		logger:  log.WithComponent("logfiles"),
	}
}

// Dir returns the resolved log directory.
func (s *Service) Dir() (string, error) {
	return s.paths.LogDir()
}

// ClearOld deletes log files whose date stamp falls strictly before
// today minus retentionDays, and returns how many were deleted. Files that do
// not match the voicetypr-YYYY-MM-DD.log convention are left alone. A missing
// log directory means there is nothing to sweep. Unlike the reset flow this is
// fail-fast: the first delete failure aborts the sweep, reporting the count
// removed so far alongside the error.
func (s *Service) ClearOld(retentionDays int) (int, error) {
	if retentionDays < 0 {
		return 0, fmt.Errorf("retention days must not be negative, got %d", retentionDays)
	}

	dir, err := s.paths.LogDir()
	if err != nil {
		return 0, fmt.Errorf("resolve log directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read log directory: %w", err)
	}

	today := s.now()
	cutoff := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -retentionDays)

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		datePart := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		day, err := time.Parse(dateLayout, datePart)
		if err != nil {
			// Not one of ours; some tools drop renamed copies here.
			continue
		}
		if !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", name, err)
		}
		s.logger.Debug("deleted old log file", "file", name)
		deleted++
	}

	s.logger.Info("log sweep finished", "deleted", deleted, "retention_days", retentionDays)
	return deleted, nil
}

// OpenFolder reveals the log directory in the OS file browser, creating the
// directory first so the browser has something to show on a fresh install.
func (s *Service) OpenFolder() error {
	dir, err := s.paths.LogDir()
	if err != nil {
		return fmt.Errorf("resolve log directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	var name string
	switch s.goos {
	case "darwin":
		name = "open"
	case "windows":
		name = "explorer"
	default:
		name = "xdg-open"
	}
	if err := s.spawner.Spawn(name, dir); err != nil {
		return fmt.Errorf("open log folder: %w", err)
	}
	return nil
}
