package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds synchronous command execution.
const DefaultTimeout = 30 * time.Second

// RunOptions configures a single invocation.
type RunOptions struct {
	Dir     string
	Env     []string
	Timeout time.Duration
}

// RunResult holds the merged output and exit code of a finished command.
// A command that could not be spawned or timed out reports a non-zero
// ExitCode and a descriptive Output rather than an error.
type RunResult struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out,omitempty"`
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) RunResult
}

// CmdRunner runs commands via os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) RunResult {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return RunResult{Output: "Command timed out", ExitCode: 1, TimedOut: true}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return RunResult{Output: buf.String(), ExitCode: exitErr.ExitCode()}
		}
		// Spawn failure (binary missing, permission denied).
		return RunResult{Output: err.Error(), ExitCode: 1}
	}
	return RunResult{Output: buf.String(), ExitCode: 0}
}

var _ Runner = CmdRunner{}
