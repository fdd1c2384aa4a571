// Package workspace owns the lifecycle of the ephemeral build directory.
//
// A workspace is either created as a fresh unique temp directory or opened
// from an operator supplied path that must already exist. Before staging it
// is wiped and recreated empty; after the run it is removed unless the
// caller asked to keep it. Callers pair Acquire with a deferred Teardown so
// the release runs on every exit path.
package workspace
