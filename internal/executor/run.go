package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// runCapture executes cmdText as a short-lived subprocess through the
// configured shell, capturing and trimming its stdout (spec.md §4.8,
// `<run('CMD')>`). The result is never cached — a fresh process runs
// every time the token is reached.
//
// Running through the shell (rather than argv-splitting cmdText
// ourselves) matches the worked example in spec.md §6
// (`<run('git rev-parse HEAD')>`) and lets authors use shell features —
// pipes, substitutions — inside a capture the same way they can in a
// shell_passthrough line.
func runCapture(ctx *expandCtx, cmdText string) (string, error) {
	shell := ctx.shell
	if len(shell) == 0 {
		shell = []string{"/bin/sh", "-c"}
	}
	args := append(append([]string{}, shell[1:]...), cmdText)
	cmd := exec.CommandContext(context.Background(), shell[0], args...)
	cmd.Dir = ctx.project.Path

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run(%q): %w", cmdText, err)
	}
	return strings.TrimRight(stdout.String(), "\r\n\t "), nil
}
