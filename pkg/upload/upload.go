// Package upload pushes bootstrap artifacts to Azure file shares by
// invoking the az command-line tool.
//
// Config uploads are required: a failed upload is returned as an
// *UploadError. License uploads are best-effort: the outcome is reported
// in a Result and logged but never returned as an error.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Output is the captured result of one external command.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run returns a non-nil error for start failures and nonzero exits alike;
// on nonzero exit the Output still carries the exit code and captured streams.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
	}
	return out, err
}

// UploadError is returned when a required upload fails.
type UploadError struct {
	Share    string
	Source   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *UploadError) Error() string {
	msg := fmt.Sprintf("failed to upload %s to share %s", e.Source, e.Share)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Result records the outcome of a best-effort upload.
type Result struct {
	Share   string `json:"share" yaml:"share"`
	Source  string `json:"source" yaml:"source"`
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
	Err     error  `json:"-" yaml:"-"`
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("share", r.Share),
		slog.String("source", r.Source),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error", r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

func trimOutput(b []byte) string {
	return strings.TrimSpace(string(b))
}
