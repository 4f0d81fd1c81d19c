package omnifocus

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"omnibridge/internal/logging"
)

// Executor defaults. The timeout accommodates the host's response
// variance on large databases.
const (
	DefaultHostBin = "/usr/bin/osascript"
	DefaultTimeout = 25 * time.Second

	// processReapDelay bounds how long Wait blocks on pipe teardown after
	// the process has been killed.
	processReapDelay = 5 * time.Second
)

// defaultHostArgs selects the JavaScript (JXA) dialect of the scripting
// host.
var defaultHostArgs = []string{"-l", "JavaScript"}

// Execution status labels, recorded per host call.
const (
	ExecStatusSuccess     = "success"
	ExecStatusTimeout     = "timeout"
	ExecStatusScriptError = "script_error"
	ExecStatusUnavailable = "unavailable"
)

// ExecutionRecorder receives one record per host script execution.
// Implemented by the instrumentation metrics; nil disables recording.
type ExecutionRecorder interface {
	RecordScriptExecution(ctx context.Context, status string, queueWait, duration time.Duration)
}

// ExecutorConfig configures the bridge executor.
type ExecutorConfig struct {
	// Bin is the scripting host binary (default: /usr/bin/osascript).
	Bin string
	// Args are the host arguments (default: -l JavaScript).
	Args []string
	// Timeout is the per-call deadline (default: 25s).
	Timeout time.Duration
	// Logger receives execution logs; nil uses slog.Default.
	Logger *slog.Logger
	// Recorder receives per-execution metrics; may be nil.
	Recorder ExecutionRecorder
}

// Executor owns the scripting-host subprocess lifecycle: it spawns one
// host process per call, feeds the script on stdin, enforces the deadline
// and classifies failures.
//
// The host serializes access to its own document, so all executions from
// this process go through a single-slot queue: no second host process is
// spawned while one is active.
type Executor struct {
	bin      string
	args     []string
	timeout  time.Duration
	logger   *slog.Logger
	recorder ExecutionRecorder

	// slot is the single-slot execution queue.
	slot chan struct{}
}

// NewExecutor creates an executor from cfg, applying defaults for unset
// fields.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.Bin == "" {
		cfg.Bin = DefaultHostBin
	}
	if cfg.Args == nil {
		cfg.Args = defaultHostArgs
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Executor{
		bin:      cfg.Bin,
		args:     cfg.Args,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
		recorder: cfg.Recorder,
		slot:     make(chan struct{}, 1),
	}
}

// Timeout returns the configured per-call deadline.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Run executes a script against the host and returns its stdout. The op
// name is used for error context and logging only.
func (e *Executor) Run(ctx context.Context, op, script string) (string, error) {
	return e.run(ctx, op, script, e.timeout)
}

// RunWithTimeout is Run with a per-call deadline overriding the default.
func (e *Executor) RunWithTimeout(ctx context.Context, op, script string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = e.timeout
	}
	return e.run(ctx, op, script, timeout)
}

func (e *Executor) run(ctx context.Context, op, script string, timeout time.Duration) (string, error) {
	queued := time.Now()
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		err := newError(KindTimeout, op, "canceled while waiting for the host execution queue")
		err.Err = ctx.Err()
		e.record(ctx, ExecStatusTimeout, time.Since(queued), 0)
		return "", err
	}
	defer func() { <-e.slot }()
	queueWait := time.Since(queued)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.bin, e.args...)
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Bound Wait after the kill on timeout so a stuck pipe cannot leak
	// the queue slot.
	cmd.WaitDelay = processReapDelay

	started := time.Now()
	err := cmd.Run()
	duration := time.Since(started)

	switch {
	case err == nil:
		e.logger.Debug("host script executed",
			logging.Operation(op),
			logging.Duration(duration),
			"queue_wait", queueWait,
			"stdout_bytes", stdout.Len(),
		)
		e.record(ctx, ExecStatusSuccess, queueWait, duration)
		return stdout.String(), nil

	case runCtx.Err() != nil:
		// The in-flight process has been killed; the queue slot is
		// released on return for the next request.
		e.logger.Warn("host script timed out",
			logging.Operation(op),
			logging.Duration(duration),
			"timeout", timeout,
		)
		e.record(ctx, ExecStatusTimeout, queueWait, duration)
		bridgeErr := newError(KindTimeout, op, "host did not respond within %s", timeout)
		bridgeErr.Err = runCtx.Err()
		return "", bridgeErr

	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			diag := strings.TrimSpace(stderr.String())
			e.logger.Warn("host script failed",
				logging.Operation(op),
				logging.Duration(duration),
				"exit_code", exitErr.ExitCode(),
				"stderr", diag,
			)
			e.record(ctx, ExecStatusScriptError, queueWait, duration)
			bridgeErr := newError(KindHostScript, op, "host exited with code %d", exitErr.ExitCode())
			bridgeErr.Detail = diag
			bridgeErr.Err = err
			return "", bridgeErr
		}

		// The process never ran: host binary missing, not executable, or
		// another spawn failure.
		e.logger.Error("host process could not be started",
			logging.Operation(op),
			logging.Err(err),
			"bin", e.bin,
		)
		e.record(ctx, ExecStatusUnavailable, queueWait, duration)
		bridgeErr := newError(KindHostUnavailable, op, "cannot start scripting host %s", e.bin)
		bridgeErr.Err = err
		return "", bridgeErr
	}
}

func (e *Executor) record(ctx context.Context, status string, queueWait, duration time.Duration) {
	if e.recorder != nil {
		e.recorder.RecordScriptExecution(ctx, status, queueWait, duration)
	}
}
