package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/cistage/internal/logfields"
)

// DefaultRunner is the binary used when none is configured.
const DefaultRunner = "platformio"

// ExecInvoker invokes the runner binary present on PATH.
type ExecInvoker struct {
	Binary string
	// Env is appended to the inherited environment of every child.
	Env []string
	// Stdout and Stderr receive the child's output as it is produced. Output
	// is captured either way for error reporting.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecInvoker returns an invoker for binary (DefaultRunner when empty).
func NewExecInvoker(binary string) *ExecInvoker {
	if binary == "" {
		binary = DefaultRunner
	}
	return &ExecInvoker{Binary: binary}
}

// InitArgs returns the argument vector for the initialize step.
func InitArgs(req InitRequest) []string {
	args := []string{"init", "--project-dir", req.ProjectDir}
	for _, b := range req.Boards {
		args = append(args, "--board", b)
	}
	if req.DisableAutoUpload {
		args = append(args, "--disable-auto-uploading")
	}
	return args
}

// BuildArgs returns the argument vector for the build step.
func BuildArgs(req BuildRequest) []string {
	return []string{"run", "--project-dir", req.ProjectDir}
}

func (e *ExecInvoker) Initialize(ctx context.Context, req InitRequest) error {
	return e.run(ctx, req.ProjectDir, req.NonInteractive, InitArgs(req))
}

func (e *ExecInvoker) Build(ctx context.Context, req BuildRequest) error {
	return e.run(ctx, req.ProjectDir, req.NonInteractive, BuildArgs(req))
}

func (e *ExecInvoker) run(ctx context.Context, dir string, nonInteractive bool, args []string) error {
	bin, err := exec.LookPath(e.Binary)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRunnerNotFound, e.Binary, err)
	}

	cmd := exec.CommandContext(ctx, bin, args...) // #nosec G204 -- runner binary is operator configured
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), e.Env...)
	cmd.Env = append(cmd.Env, "PWD="+dir)
	if nonInteractive {
		cmd.Env = append(cmd.Env, "PLATFORMIO_SETTING_ENABLE_PROMPTS=false")
		cmd.Stdin = nil
	} else {
		cmd.Stdin = os.Stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, e.Stdout)
	cmd.Stderr = tee(&stderr, e.Stderr)

	slog.Info("Invoking runner", logfields.Runner(bin), slog.String("args", strings.Join(args, " ")), logfields.Path(dir))
	err = cmd.Run()

	outStr, errStr := stdout.String(), stderr.String()
	if e.Stdout == nil && outStr != "" {
		slog.Debug("runner stdout", "output", outStr)
	}
	if e.Stderr == nil && errStr != "" {
		slog.Warn("runner stderr", "error_output", errStr)
	}
	if err != nil {
		output := strings.TrimSpace(strings.Join(nonEmpty(outStr, errStr), "\n"))
		if output != "" {
			return fmt.Errorf("%w: %s %s: %w: %s", ErrRunnerFailed, e.Binary, args[0], err, output)
		}
		return fmt.Errorf("%w: %s %s: %w", ErrRunnerFailed, e.Binary, args[0], err)
	}
	return nil
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
