package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ideaplexa/voicetyprd/internal/api"
	"github.com/ideaplexa/voicetyprd/internal/config"
	"github.com/ideaplexa/voicetyprd/internal/events"
	"github.com/ideaplexa/voicetyprd/internal/lock"
	"github.com/ideaplexa/voicetyprd/internal/log"
	"github.com/ideaplexa/voicetyprd/internal/logfiles"
	"github.com/ideaplexa/voicetyprd/internal/paths"
	"github.com/ideaplexa/voicetyprd/internal/reset"
	"github.com/ideaplexa/voicetyprd/internal/shell"
	"github.com/ideaplexa/voicetyprd/internal/store"
	"github.com/ideaplexa/voicetyprd/internal/tui"
	"github.com/ideaplexa/voicetyprd/internal/vault"
	"github.com/ideaplexa/voicetyprd/internal/whisper"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		os.Exit(runServe(args))
	case "reset":
		os.Exit(runReset(args))
	case "logs":
		os.Exit(runLogsNoun(args))
	case "version":
		os.Exit(runVersion(args))
	case "help", "--help", "-h":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`voicetyprd - VoiceTypr desktop app state daemon

Usage:
  voicetyprd <command> [flags]

Commands:
  serve             Run the daemon in the foreground (HTTP API + event stream)
  reset             Tear down all persisted and in-memory application state
  logs sweep        Delete log files older than the retention window
  logs dir          Print the resolved log directory
  logs open         Reveal the log directory in the OS file browser
  version           Show version information
  help              Show this help message

Serve flags:
  --config PATH     Configuration file (default: discovered)

Reset flags:
  --yes             Skip the confirmation prompt
  --json            Emit the reset report as JSON
  --interactive     Confirm and watch the reset in a terminal UI
`)
}

// loadConfig resolves and loads the configuration file.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		discovered, err := config.DiscoverConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = discovered
	}
	return config.Load(configPath)
}

// resolverFromConfig builds the path resolver, honoring pinned directories.
func resolverFromConfig(cfg *config.Config) *paths.OSResolver {
	return paths.NewOS(cfg.App.Identifier, paths.Overrides{
		DataDir:  cfg.Paths.DataDir,
		LogDir:   cfg.Paths.LogDir,
		CacheDir: cfg.Paths.CacheDir,
	})
}

// daemon bundles everything a command needs after config load.
type daemon struct {
	cfg      *config.Config
	resolver *paths.OSResolver
	runner   *shell.ExecRunner
	hub      *events.Hub
	keyCache *vault.KeyCache
	runtime  *whisper.Manager
	vault    *vault.FileVault
	stores   *store.Registry
	settings *store.JSONStore
	history  *store.TranscriptionStore
	logs     *logfiles.Service
}

// buildDaemon wires the collaborators. Store open failures are reported but
// non-fatal: the reset flow treats an unopenable store like an absent one.
func buildDaemon(ctx context.Context, cfg *config.Config) *daemon {
	logger := log.WithComponent("main")
	resolver := resolverFromConfig(cfg)
	runner := shell.NewExecRunner()

	d := &daemon{
		cfg:      cfg,
		resolver: resolver,
		runner:   runner,
		hub:      events.NewHub(256),
		keyCache: vault.NewKeyCache(),
		runtime:  whisper.NewManager(),
		stores:   store.NewRegistry(),
		logs:     logfiles.New(resolver, runner),
	}

	dataDir, err := resolver.DataDir()
	if err != nil {
		logger.Warn("data directory unresolved, stores and vault unavailable", "error", err)
		return d
	}

	d.vault = vault.NewFile(
		vault.DefaultPath(dataDir),
		os.Getenv(cfg.Vault.PassphraseEnv),
	)

	storesDir := filepath.Join(dataDir, "stores")
	if settings, err := store.OpenJSON(storesDir, "settings"); err != nil {
		logger.Warn("settings store unavailable", "error", err)
	} else {
		d.settings = settings
		d.stores.Register(settings)
	}
	if history, err := store.OpenTranscriptions(ctx, storesDir); err != nil {
		logger.Warn("transcriptions store unavailable", "error", err)
	} else {
		d.history = history
		d.stores.Register(history)
	}

	return d
}

// orchestrator builds the reset orchestrator over the daemon's collaborators.
func (d *daemon) orchestrator() *reset.Orchestrator {
	cfg := reset.Config{
		Identifier: d.cfg.App.Identifier,
		Paths:      d.resolver,
		KeyCache:   d.keyCache,
		Runtime:    d.runtime,
		Emitter:    d.hub,
		Shell:      d.runner,
	}
	if d.vault != nil {
		cfg.Vault = d.vault
	}
	if d.settings != nil {
		cfg.Settings = d.settings
	}
	if d.history != nil {
		cfg.History = d.history
	}
	return reset.New(cfg)
}

func (d *daemon) close() {
	if d.history != nil {
		_ = d.history.Close()
	}
	d.hub.Close()
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log.Setup(cfg.App.LogLevel, cfg.App.LogFormat)
	logger := log.WithComponent("main")
	logger.Info("voicetyprd starting", "version", version, "identifier", cfg.App.Identifier)

	resolver := resolverFromConfig(cfg)
	dataDir, err := resolver.DataDir()
	if err != nil {
		logger.Error("failed to resolve data directory", "error", err)
		return 1
	}
	pidLock, err := lock.Acquire(lock.DefaultPath(dataDir))
	if err != nil {
		logger.Error("failed to acquire PID lock", "error", err)
		return 1
	}
	defer pidLock.Release()
	logger.Info("acquired PID lock", "path", pidLock.Path())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := buildDaemon(ctx, cfg)
	defer d.close()
	logger.Info("stores ready", "stores", d.stores.Names())

	if !cfg.API.Enabled {
		logger.Info("API disabled, idling until shutdown signal")
		<-ctx.Done()
		return 0
	}
	if cfg.API.APIKey == "" {
		logger.Error("api.api_key is required when the API is enabled")
		return 1
	}

	server := api.New(api.Config{
		Listen:        cfg.API.Listen,
		APIKey:        cfg.API.APIKey,
		RetentionDays: cfg.Logs.RetentionDays,
	}, d.orchestrator(), d.logs, d.hub, log.WithComponent("api"))

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("API server failed", "error", err)
		return 1
	}
	logger.Info("voicetyprd stopped")
	return 0
}

func runReset(args []string) int {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	jsonOut := fs.Bool("json", false, "Emit the reset report as JSON")
	interactive := fs.Bool("interactive", false, "Confirm and watch the reset in a terminal UI")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	log.Setup(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx := context.Background()
	d := buildDaemon(ctx, cfg)
	defer d.close()
	orch := d.orchestrator()

	var res reset.Result
	if *interactive {
		result, ran, err := tui.RunInteractive(ctx, orch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !ran {
			return 0
		}
		res = result
	} else {
		if !*yes && !confirm("This will delete all VoiceTypr data, models and credentials. Type 'yes' to continue: ") {
			fmt.Println("Cancelled.")
			return 0
		}
		res = orch.Run(ctx)
	}

	if *jsonOut {
		data, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(data))
	} else if !*interactive {
		fmt.Print(tui.RenderResult(res))
	}

	if !res.Success {
		return 1
	}
	return 0
}

func runLogsNoun(args []string) int {
	if len(args) < 1 {
		printLogsNounHelp(os.Stderr)
		return 1
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		printLogsNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "sweep":
		return runLogsSweep(actionArgs)
	case "dir":
		return runLogsDir(actionArgs)
	case "open":
		return runLogsOpen(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown logs action: %s\n", action)
		printLogsNounHelp(os.Stderr)
		return 1
	}
}

func printLogsNounHelp(w *os.File) {
	fmt.Fprintln(w, "Usage: voicetyprd logs <action> [flags]")
	fmt.Fprintln(w, "Actions: sweep, dir, open")
}

func logService(configPath string) (*logfiles.Service, *config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	log.Setup(cfg.App.LogLevel, cfg.App.LogFormat)
	return logfiles.New(resolverFromConfig(cfg), shell.NewExecRunner()), cfg, nil
}

func runLogsSweep(args []string) int {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	days := fs.Int("days", -1, "Retention window in days (default: configured retention)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	svc, cfg, err := logService(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	retention := cfg.Logs.RetentionDays
	if *days >= 0 {
		retention = *days
	}

	deleted, err := svc.ClearOld(retention)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sweep aborted after %d deletions: %v\n", deleted, err)
		return 1
	}
	fmt.Printf("Deleted %d log file(s) older than %d day(s)\n", deleted, retention)
	return 0
}

func runLogsDir(args []string) int {
	fs := flag.NewFlagSet("dir", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	svc, _, err := logService(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	dir, err := svc.Dir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(dir)
	return 0
}

func runLogsOpen(args []string) int {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	svc, _, err := logService(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if err := svc.OpenFolder(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output in JSON format")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		return 1
	}

	if *jsonOut {
		data, _ := json.Marshal(map[string]string{"name": "voicetyprd", "version": version})
		fmt.Println(string(data))
		return 0
	}
	fmt.Printf("voicetyprd version %s\n", version)
	return 0
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}
