// Package shell invokes OS utilities and captures their outcome without
// panicking on missing binaries. It is never used to mutate the filesystem.
package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// maxOutputBytes caps the amount of combined output captured per invocation.
const maxOutputBytes = 64 * 1024

// Result reports one external command invocation. Attempted is false when the
// utility could not be spawned at all (typically: not installed), which is a
// different condition from "ran but exited non-zero".
type Result struct {
	Attempted bool
	Succeeded bool
	Output    string
}

// Runner spawns a named external command with arguments and awaits its exit.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) Result
}

// ExecRunner runs commands via os/exec, synchronously.
type ExecRunner struct{}

var _ Runner = (*ExecRunner)(nil)

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) Result {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()

	res := Result{Output: truncateOutput(string(out))}
	if err == nil {
		res.Attempted = true
		res.Succeeded = true
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// The utility ran and reported failure via its exit status.
		res.Attempted = true
		return res
	}

	// Spawn failure: binary missing, permission denied, cancelled context.
	if res.Output == "" {
		res.Output = err.Error()
	}
	return res
}

// Spawn starts a command without waiting for it to exit. Used for launching
// the OS file browser, where the child outlives the call.
func (r *ExecRunner) Spawn(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child in the background so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

func truncateOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxOutputBytes {
		return s[:maxOutputBytes]
	}
	return s
}
