// Package pipeline hands a populated workspace to the external project
// initializer and build runner.
//
// Invoker abstracts how the two downstream steps are performed. ExecInvoker
// drives the PlatformIO CLI found on PATH; NoopInvoker and RecordingInvoker
// exist for dry runs and tests.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrRunnerNotFound is returned when the runner binary is not on PATH.
var ErrRunnerNotFound = errors.New("build runner binary not found")

// ErrRunnerFailed is returned when the runner exits unsuccessfully.
var ErrRunnerFailed = errors.New("build runner failed")

// InitRequest asks the initializer to materialize project configuration.
type InitRequest struct {
	ProjectDir        string
	Boards            []string
	DisableAutoUpload bool
	// NonInteractive suppresses every prompt in the child process.
	NonInteractive bool
}

// BuildRequest asks the build runner to process the project.
type BuildRequest struct {
	ProjectDir     string
	NonInteractive bool
}

// Invoker performs the two downstream steps. Both receive the workspace
// root as the project directory.
type Invoker interface {
	Initialize(ctx context.Context, req InitRequest) error
	Build(ctx context.Context, req BuildRequest) error
}

// NoopInvoker performs nothing; useful for staging-only runs.
type NoopInvoker struct{}

func (NoopInvoker) Initialize(_ context.Context, req InitRequest) error {
	slog.Debug("NoopInvoker skipping initialize", "dir", req.ProjectDir)
	return nil
}

func (NoopInvoker) Build(_ context.Context, req BuildRequest) error {
	slog.Debug("NoopInvoker skipping build", "dir", req.ProjectDir)
	return nil
}

// Call is one recorded invocation.
type Call struct {
	Step  string
	Init  InitRequest
	Build BuildRequest
}

// RecordingInvoker records calls and optionally fails a step. OnInit and
// OnBuild, when set, run before the call returns and may inspect the
// workspace.
type RecordingInvoker struct {
	mu       sync.Mutex
	calls    []Call
	InitErr  error
	BuildErr error
	OnInit   func(InitRequest)
	OnBuild  func(BuildRequest)
}

func (r *RecordingInvoker) Initialize(_ context.Context, req InitRequest) error {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Step: "initialize", Init: req})
	r.mu.Unlock()
	if r.OnInit != nil {
		r.OnInit(req)
	}
	return r.InitErr
}

func (r *RecordingInvoker) Build(_ context.Context, req BuildRequest) error {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Step: "build", Build: req})
	r.mu.Unlock()
	if r.OnBuild != nil {
		r.OnBuild(req)
	}
	return r.BuildErr
}

// Calls returns a copy of the recorded calls.
func (r *RecordingInvoker) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}
