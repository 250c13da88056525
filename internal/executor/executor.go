package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/axes-build/axes/internal/params"
	"github.com/axes-build/axes/internal/resolver"
	"github.com/axes-build/axes/internal/task"
)

// Executor runs a flattened, specialized task against a merged
// environment and resolved parameter map (spec.md §4.8). One Executor
// corresponds to one invocation of one script.
type Executor struct {
	Facade  *resolver.Facade
	Host    task.Platform
	Env     map[string]string
	Params  params.Map

	ProjectUUID uuid.UUID
	ProjectName string
	ProjectPath string
	Version     string

	// SessionUUID, when non-nil, is exported to subprocesses as
	// AXES_PROJECT_UUID (spec.md §6: "if the executor is invoked from
	// within a session").
	SessionUUID uuid.UUID

	// Shell is the argv prefix used for shell_passthrough lines and
	// `<run('...')>` captures; e.g. []string{"/bin/sh", "-c"}.
	Shell []string

	Stdout io.Writer
	Stderr io.Writer

	// DryRun expands every command to completion but spawns no
	// subprocess for the command itself (Run() captures still execute,
	// since their output feeds the printed preview).
	DryRun bool
}

func (e *Executor) ctx() *expandCtx {
	return &expandCtx{
		facade: e.Facade,
		host:   e.Host,
		params: e.Params,
		project: project{
			UUID:    e.ProjectUUID,
			Name:    e.ProjectName,
			Path:    e.ProjectPath,
			Version: e.Version,
		},
		shell: e.Shell,
	}
}

// commandOutcome is one member's result within a (possibly size-1) batch.
// ran is false for a member that was skipped outright because the task
// had already failed and this member lacks ignore_errors.
type commandOutcome struct {
	cmd      task.SpecializedCommand
	exitCode int
	ran      bool
	err      error
}

// Run flattens t's ScriptRef compositions and executes the resulting
// command stream, batching contiguous `parallel` commands together. It
// returns the task exit code (spec.md §4.8 step 6) and a non-nil error
// only for problems that prevented execution from completing at all
// (expansion failure, unresolvable ScriptRef) — a failing *command* is
// reported purely through the returned exit code.
//
// An unignored failure sets the task exit code and stops ordinary
// commands from running for the remainder of the script, but scanning
// continues: any later command carrying ignore_errors still runs
// (spec.md §8 scenario 3). Only the first unignored failure's exit code
// is kept as the task's final code.
func (e *Executor) Run(t *task.SpecializedTask) (int, error) {
	flattened, err := FlattenScript(t, e.Facade, e.Host)
	if err != nil {
		return 0, err
	}

	taskCode := 0
	failed := false

	i := 0
	for i < len(flattened) {
		if !flattened[i].Parallel {
			cmd := flattened[i]
			if failed && !cmd.IgnoreErrors {
				i++
				continue
			}
			code, err := e.runOne(cmd)
			if err != nil {
				return 0, err
			}
			if code != 0 && !cmd.IgnoreErrors && !failed {
				taskCode = code
				failed = true
			}
			i++
			continue
		}

		j := i
		for j < len(flattened) && flattened[j].Parallel {
			j++
		}
		batch := flattened[i:j]
		outcomes, err := e.runBatch(batch, failed)
		if err != nil {
			return 0, err
		}
		for _, o := range outcomes {
			if o.ran && o.exitCode != 0 && !o.cmd.IgnoreErrors && !failed {
				taskCode = o.exitCode
				failed = true
			}
		}
		i = j
	}
	return taskCode, nil
}

// runBatch launches every member of a contiguous parallel run
// concurrently and waits for all of them, regardless of individual
// failures — peers already running are never killed because one sibling
// failed (spec.md §5). A member is skipped outright (never launched) when
// the task has already failed and that member lacks ignore_errors.
func (e *Executor) runBatch(batch []task.SpecializedCommand, alreadyFailed bool) ([]commandOutcome, error) {
	outcomes := make([]commandOutcome, len(batch))

	// A zero-value Group (no associated context) is used deliberately:
	// errgroup.WithContext would cancel that context on the first
	// member's error, but nothing here is wired to observe cancellation
	// — every sibling must run to natural completion regardless (spec.md
	// §5), so there is nothing for a shared context to usefully cancel.
	var g errgroup.Group
	for idx, cmd := range batch {
		idx, cmd := idx, cmd
		if alreadyFailed && !cmd.IgnoreErrors {
			outcomes[idx] = commandOutcome{cmd: cmd}
			continue
		}
		g.Go(func() error {
			code, err := e.runOne(cmd)
			if err != nil {
				return err
			}
			outcomes[idx] = commandOutcome{cmd: cmd, exitCode: code, ran: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// runOne expands and, unless echo-only, executes a single specialized
// command. It returns the command's own exit code (0 for echo-only and
// dry-run lines, which never spawn a process).
func (e *Executor) runOne(cmd task.SpecializedCommand) (int, error) {
	if len(cmd.Template) == 0 {
		return 0, nil // empty per-platform template: documented no-op.
	}

	ctx := e.ctx()

	if cmd.EchoOnly {
		text, err := expandTemplate(ctx, cmd.Template, false)
		if err != nil {
			return 0, fmt.Errorf("expanding echo-only line: %w", err)
		}
		fmt.Fprintln(e.Stdout, text)
		return 0, nil
	}

	text, err := expandTemplate(ctx, cmd.Template, true)
	if err != nil {
		return 0, fmt.Errorf("expanding command line: %w", err)
	}

	if !cmd.Silent || e.DryRun {
		fmt.Fprintf(e.Stdout, "→ %s\n", text)
	}
	if e.DryRun {
		return 0, nil
	}

	var exe *exec.Cmd
	if cmd.ShellPassthrough {
		shell := e.Shell
		if len(shell) == 0 {
			shell = []string{"/bin/sh", "-c"}
		}
		args := append(append([]string{}, shell[1:]...), text)
		exe = exec.CommandContext(context.Background(), shell[0], args...)
	} else {
		argv, err := splitArgv(text)
		if err != nil {
			return 0, err
		}
		if len(argv) == 0 {
			return 0, nil
		}
		exe = exec.CommandContext(context.Background(), argv[0], argv[1:]...)
	}

	exe.Dir = e.ProjectPath
	exe.Env = e.buildEnv()
	exe.Stdout = e.Stdout
	exe.Stderr = e.Stderr

	runErr := exe.Run()
	if runErr == nil {
		return 0, nil
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running %q: %w", text, runErr)
}

// buildEnv layers the merged [env] (already root-first, leaf-last
// folded by the facade) over the inherited process environment, and adds
// AXES_PROJECT_UUID when running inside a session (spec.md §6).
func (e *Executor) buildEnv() []string {
	base := os.Environ()
	out := make([]string, 0, len(base)+len(e.Env)+1)
	out = append(out, base...)
	for k, v := range e.Env {
		out = append(out, k+"="+v)
	}
	if e.SessionUUID != uuid.Nil {
		out = append(out, "AXES_PROJECT_UUID="+e.SessionUUID.String())
	}
	return out
}
