// Package agent spawns and bounds the Goose CLI executable. An
// invocation merges the child's stdout and stderr into one ordered line
// stream, accumulates it incrementally so partial output survives a
// timeout, and forcibly terminates the process group when the deadline
// passes. Every failure mode is a typed Outcome, never a panic or a
// propagated fault.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/launchpad-labs/goose-gateway/internal/logging"
	"github.com/launchpad-labs/goose-gateway/internal/metrics"
)

// State is the terminal state of one invocation.
type State string

const (
	// StateCompleted means the process exited on its own within the timeout.
	StateCompleted State = "completed"
	// StateTimedOut means the timeout elapsed and the process was killed.
	StateTimedOut State = "timed_out"
	// StateSpawnFailed means the process never started.
	StateSpawnFailed State = "spawn_failed"
)

// Outcome is the result of one invocation. Output holds the merged
// stdout+stderr stream: complete for StateCompleted, partial for
// StateTimedOut, empty for StateSpawnFailed.
type Outcome struct {
	State    State
	ExitCode int
	Output   string
	Err      error
}

// Success reports whether the process completed with exit code zero.
func (o Outcome) Success() bool {
	return o.State == StateCompleted && o.ExitCode == 0
}

// LineObserver receives each output line as it is read, for live
// logging. It is called from the reader goroutine and must not block.
type LineObserver func(line string)

const (
	probeTimeout = 5 * time.Second

	// defaultMaxConcurrent bounds concurrently spawned children. The
	// process table is a shared resource; unbounded spawning under
	// concurrent diagnostic requests is an operational hazard.
	defaultMaxConcurrent = 4

	termGrace = 250 * time.Millisecond
	killGrace = 2 * time.Second
)

// Invoker runs a fixed executable with bounded invocations. Concurrent
// invocations are independent; the only shared state is the semaphore
// capping how many children may run at once.
type Invoker struct {
	path     string
	observer LineObserver
	sem      chan struct{}
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithObserver forwards each output line to fn as it is read.
func WithObserver(fn LineObserver) Option {
	return func(inv *Invoker) { inv.observer = fn }
}

// WithMaxConcurrent caps concurrently running invocations. n < 1 keeps
// the default.
func WithMaxConcurrent(n int) Option {
	return func(inv *Invoker) {
		if n >= 1 {
			inv.sem = make(chan struct{}, n)
		}
	}
}

// New builds an Invoker for the executable at path.
func New(path string, opts ...Option) *Invoker {
	inv := &Invoker{
		path: path,
		sem:  make(chan struct{}, defaultMaxConcurrent),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Path returns the configured executable path.
func (inv *Invoker) Path() string { return inv.path }

// Available reports whether the executable responds to a cheap version
// probe. Every failure is "unavailable"; nothing is thrown.
func (inv *Invoker) Available() bool {
	return inv.Version() != ""
}

// Version returns the trimmed output of a `--version` probe, or "" when
// the executable is missing, broken, or slow to answer.
func (inv *Invoker) Version() string {
	if inv.path == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, inv.path, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Invoke runs the executable with args, overlaying envOverrides on the
// inherited environment, and waits up to timeout for natural
// termination. Stdin is closed immediately; no interactive input is
// ever sent. See Outcome for the three terminal states.
//
// Invoke blocks while the concurrency cap is saturated; ctx cancellation
// during that wait or during the run is treated like a timeout.
func (inv *Invoker) Invoke(ctx context.Context, args []string, envOverrides map[string]string, timeout time.Duration) Outcome {
	id := uuid.NewString()
	log := logging.FromContext(ctx).With("invocation_id", id)

	select {
	case inv.sem <- struct{}{}:
	case <-ctx.Done():
		err := fmt.Errorf("waiting for invocation slot: %w", ctx.Err())
		metrics.AgentInvocations.WithLabelValues(string(StateSpawnFailed)).Inc()
		return Outcome{State: StateSpawnFailed, Err: err}
	}
	defer func() { <-inv.sem }()

	start := time.Now()
	outcome := inv.run(ctx, log, args, envOverrides, timeout)
	elapsed := time.Since(start)

	metrics.AgentInvocations.WithLabelValues(string(outcome.State)).Inc()
	metrics.AgentInvocationDuration.Observe(elapsed.Seconds())
	log.Info("agent invocation finished",
		"state", string(outcome.State),
		"exit_code", outcome.ExitCode,
		"output_bytes", len(outcome.Output),
		"elapsed", elapsed)
	return outcome
}

func (inv *Invoker) run(ctx context.Context, log *slog.Logger, args []string, envOverrides map[string]string, timeout time.Duration) Outcome {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.Command(inv.path, args...)
	cmd.Env = overlayEnviron(os.Environ(), envOverrides)
	// Run the child in its own process group so a forced termination
	// takes any grandchildren down with it.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	// nil Stdin wires the child to /dev/null: its input stream is closed
	// from its point of view before it ever reads.
	cmd.Stdin = nil

	// One pipe carries both streams so interleaving stays ordered.
	pr, pw, err := os.Pipe()
	if err != nil {
		return Outcome{State: StateSpawnFailed, Err: fmt.Errorf("output pipe: %w", err)}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return Outcome{State: StateSpawnFailed, Err: fmt.Errorf("spawning %s: %w", inv.path, err)}
	}
	// The child holds its own copies of the write end; the parent's must
	// close so the reader sees EOF when the child exits.
	pw.Close()

	// Dedicated reader: accumulates lines incrementally and forwards
	// each to the observer, so partial output is available on timeout.
	var (
		buf        strings.Builder
		bufMu      sync.Mutex
		readerDone = make(chan struct{})
	)
	go func() {
		defer close(readerDone)
		defer pr.Close()
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			bufMu.Lock()
			buf.WriteString(line)
			buf.WriteByte('\n')
			bufMu.Unlock()
			log.Debug("agent output", "line", line, "event", EventType(line))
			if inv.observer != nil {
				inv.observer(line)
			}
		}
	}()

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	partial := func() string {
		bufMu.Lock()
		defer bufMu.Unlock()
		return buf.String()
	}

	select {
	case waitErr := <-waitCh:
		<-readerDone
		return Outcome{
			State:    StateCompleted,
			ExitCode: exitCode(cmd, waitErr),
			Output:   partial(),
		}
	case <-runCtx.Done():
		inv.terminate(cmd, waitCh)
		// Give the reader a moment to drain what the pipe still holds.
		select {
		case <-readerDone:
		case <-time.After(termGrace):
		}
		return Outcome{
			State:  StateTimedOut,
			Output: partial(),
			Err:    fmt.Errorf("timed out after %s", timeout),
		}
	}
}

// terminate force-kills the child's process group: SIGTERM, a short
// grace, then SIGKILL, waiting bounded time for Wait to return so the
// process handle is always released.
func (inv *Invoker) terminate(cmd *exec.Cmd, waitCh <-chan error) {
	_ = signalGroup(cmd, syscall.SIGTERM)
	select {
	case <-waitCh:
		return
	case <-time.After(termGrace):
	}
	_ = signalGroup(cmd, syscall.SIGKILL)
	select {
	case <-waitCh:
	case <-time.After(killGrace):
	}
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return syscall.Kill(-cmd.Process.Pid, sig)
}

// exitCode extracts the child's exit status from Wait's error.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if ee, ok := waitErr.(*exec.ExitError); ok {
		return ee.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	return -1
}

// overlayEnviron appends overrides to base as KEY=value pairs. os/exec
// keeps only the last value for a duplicated key, so overrides shadow
// any inherited value of the same name.
func overlayEnviron(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	env := make([]string, len(base), len(base)+len(overrides))
	copy(env, base)
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}
