package logfiles

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ideaplexa/voicetyprd/internal/log"
	"github.com/ideaplexa/voicetyprd/internal/paths"
)

type recordingSpawner struct {
	name string
	args []string
	err  error
}

func (r *recordingSpawner) Spawn(name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func newTestService(t *testing.T, dir string, today time.Time) *Service {
	t.Helper()
	return &Service{
		paths:   &paths.Static{Log: dir},
		spawner: &recordingSpawner{},
		goos:    "linux",
		now:     func() time.Time { return today },
		logger:  log.WithComponent("logfiles"),
	}
}

func writeLog(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestClearOldDeletesOnlyExpiredMatches(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "voicetypr-2020-01-01.log")
	writeLog(t, dir, "voicetypr-2099-01-01.log")
	writeLog(t, dir, "voicetypr-2024-05-01.log")
	writeLog(t, dir, "voicetypr-2024-05-20.log")
	writeLog(t, dir, "readme.txt")
	writeLog(t, dir, "voicetypr-notadate.log")

	today := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	svc := newTestService(t, dir, today)

	n, err := svc.ClearOld(30)
	if err != nil {
		t.Fatalf("ClearOld: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d files, want 2", n)
	}

	// Cutoff is 2024-05-02: the 2020 file and 2024-05-01 go, everything else
	// stays, including the non-matching names.
	for _, name := range []string{"voicetypr-2099-01-01.log", "voicetypr-2024-05-20.log", "readme.txt", "voicetypr-notadate.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s should have survived: %v", name, err)
		}
	}
	for _, name := range []string{"voicetypr-2020-01-01.log", "voicetypr-2024-05-01.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Fatalf("%s should have been deleted", name)
		}
	}
}

func TestClearOldCutoffIsExclusive(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "voicetypr-2024-05-02.log") // exactly at the cutoff

	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestService(t, dir, today)

	n, err := svc.ClearOld(30)
	if err != nil {
		t.Fatalf("ClearOld: %v", err)
	}
	if n != 0 {
		t.Fatalf("deleted %d files, want 0: cutoff date itself must survive", n)
	}
}

func TestClearOldZeroDaysKeepsToday(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "voicetypr-2024-06-01.log")
	writeLog(t, dir, "voicetypr-2024-05-31.log")

	today := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, dir, today)

	n, err := svc.ClearOld(0)
	if err != nil {
		t.Fatalf("ClearOld: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted %d files, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "voicetypr-2024-06-01.log")); err != nil {
		t.Fatalf("today's log should survive days=0: %v", err)
	}
}

func TestClearOldMissingDirectory(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "never-created"), time.Now())
	n, err := svc.ClearOld(30)
	if err != nil {
		t.Fatalf("ClearOld on missing dir: %v", err)
	}
	if n != 0 {
		t.Fatalf("deleted %d files, want 0", n)
	}
}

func TestClearOldNegativeDays(t *testing.T) {
	svc := newTestService(t, t.TempDir(), time.Now())
	if _, err := svc.ClearOld(-1); err == nil {
		t.Fatal("negative retention should be rejected")
	}
}

func TestOpenFolderCreatesDirAndSpawnsBrowser(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	spawner := &recordingSpawner{}
	svc := &Service{
		paths:   &paths.Static{Log: dir},
		spawner: spawner,
		goos:    "linux",
		now:     time.Now,
		logger:  log.WithComponent("logfiles"),
	}

	if err := svc.OpenFolder(); err != nil {
		t.Fatalf("OpenFolder: %v", err)
	}
	if spawner.name != "xdg-open" {
		t.Fatalf("spawned %q, want xdg-open", spawner.name)
	}
	if len(spawner.args) != 1 || spawner.args[0] != dir {
		t.Fatalf("spawned with args %v, want [%s]", spawner.args, dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log directory should exist after OpenFolder: %v", err)
	}
}

func TestOpenFolderPlatformBrowsers(t *testing.T) {
	for goos, want := range map[string]string{
		"darwin":  "open",
		"windows": "explorer",
		"linux":   "xdg-open",
	} {
		spawner := &recordingSpawner{}
		svc := &Service{
			paths:   &paths.Static{Log: t.TempDir()},
			spawner: spawner,
			goos:    goos,
			now:     time.Now,
			logger:  log.WithComponent("logfiles"),
		}
		if err := svc.OpenFolder(); err != nil {
			t.Fatalf("%s: OpenFolder: %v", goos, err)
		}
		if spawner.name != want {
			t.Fatalf("%s: spawned %q, want %q", goos, spawner.name, want)
		}
	}
}
