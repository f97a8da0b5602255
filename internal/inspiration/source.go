// ABOUTME: Sources of raw inspiration payloads
// ABOUTME: CommandSource runs an external CLI and returns its stdout

package inspiration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Source produces a raw JSON payload of trending items.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]byte, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([]byte, error) {
	return f(ctx)
}

// ErrNoCommand is returned by a CommandSource with an empty command.
var ErrNoCommand = errors.New("no inspiration command configured")

// CommandSource runs Command with Args and returns its standard output.
// The process inherits the server's environment, so credentials such as
// AUTH_TOKEN reach the tool without being configured here.
type CommandSource struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// Fetch runs the command, killing it if it outlives Timeout or ctx.
func (s *CommandSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.Command == "" {
		return nil, ErrNoCommand
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	// Grandchildren holding stdout open must not stall the request
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("running %s: %w", s.Command, ctx.Err())
		default:
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", s.Command, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", s.Command, err)
	}

	return output, nil
}
