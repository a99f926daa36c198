// Package shell runs operator commands in a subprocess attached to the terminal.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned when Run is given a blank command.
var ErrEmptyCommand = errors.New("shell: empty command")

// Runner runs shell commands for the engine.
type Runner interface {
	// Run executes command with the command shell.
	Run(ctx context.Context, command string) error
	// Interactive starts an interactive shell and waits for it to exit.
	Interactive(ctx context.Context) error
}

// ExecRunner runs subprocesses wired to the given standard streams.
type ExecRunner struct {
	commandShell     string
	interactiveShell string
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
}

// NewExecRunner returns a Runner that uses sh for commands and bash for the
// interactive shell.
func NewExecRunner(stdin io.Reader, stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{
		commandShell:     "sh",
		interactiveShell: "bash",
		stdin:            stdin,
		stdout:           stdout,
		stderr:           stderr,
	}
}

// Run implements Runner.
//
// Postcondition: Returns ErrEmptyCommand for a blank command, or the exit
// error of the subprocess.
func (r *ExecRunner) Run(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}
	return r.run(exec.CommandContext(ctx, r.commandShell, "-c", command))
}

// Interactive implements Runner.
func (r *ExecRunner) Interactive(ctx context.Context) error {
	return r.run(exec.CommandContext(ctx, r.interactiveShell))
}

func (r *ExecRunner) run(cmd *exec.Cmd) error {
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(cmd.Args, " "), err)
	}
	return nil
}
