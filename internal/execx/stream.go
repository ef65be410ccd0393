package execx

import (
	"bufio"
	"os"
	"os/exec"
	"sync"
)

// Event is a single item on a streaming command's output channel. Exactly one
// terminal event carries Done=true; its ExitCode is the process exit status.
type Event struct {
	Line     string
	Err      error
	Done     bool
	ExitCode int
}

// StreamingCommand runs a child process and emits its merged stdout/stderr
// line by line. Line order is preserved as produced by the OS pipe.
type StreamingCommand struct {
	cmd    *exec.Cmd
	events chan Event

	mu      sync.Mutex
	started bool
	stopped bool
}

// Stream starts the command and returns a handle plus its event channel.
// The channel is closed after the terminal event. A spawn failure is
// reported as an error event followed by Done with exit code 1, never as
// a panic or a silent hang.
func Stream(command string, args []string, opts RunOptions) (*StreamingCommand, <-chan Event) {
	cmd := exec.Command(command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	sc := &StreamingCommand{
		cmd:    cmd,
		events: make(chan Event, 64),
	}
	go sc.run()
	return sc, sc.events
}

func (sc *StreamingCommand) run() {
	defer close(sc.events)

	stdout, err := sc.cmd.StdoutPipe()
	if err != nil {
		sc.events <- Event{Err: err}
		sc.events <- Event{Done: true, ExitCode: 1}
		return
	}
	// Merge stderr into the same pipe so line order matches what the
	// process interleaved.
	sc.cmd.Stderr = sc.cmd.Stdout

	sc.mu.Lock()
	if sc.stopped {
		sc.mu.Unlock()
		sc.events <- Event{Done: true, ExitCode: 1}
		return
	}
	if err := sc.cmd.Start(); err != nil {
		sc.mu.Unlock()
		sc.events <- Event{Err: err}
		sc.events <- Event{Done: true, ExitCode: 1}
		return
	}
	sc.started = true
	sc.mu.Unlock()

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sc.events <- Event{Line: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		sc.events <- Event{Err: err}
	}

	exitCode := 0
	if err := sc.cmd.Wait(); err != nil {
		exitCode = 1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
	}
	sc.events <- Event{Done: true, ExitCode: exitCode}
}

// Stop sends a termination signal to the child process. Best-effort: the
// process may still be running when Stop returns.
func (sc *StreamingCommand) Stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.stopped = true
	if sc.started && sc.cmd.Process != nil {
		_ = sc.cmd.Process.Signal(os.Interrupt)
	}
}
