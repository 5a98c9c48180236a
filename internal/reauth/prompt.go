// Package reauth provides the ways a human can hand fresh session cookies to
// a running apply cycle: a terminal prompt and an HTTP inbox.
package reauth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"

	"github.com/sevigo/apply-warden/internal/core"
	"github.com/sevigo/apply-warden/internal/hh"
)

// Prompt asks on a terminal for a new cookie string. Only one question is
// on screen at a time; other accounts queue behind it.
type Prompt struct {
	out    io.Writer
	in     io.Reader
	logger *slog.Logger

	turn      chan struct{}
	startOnce sync.Once
	lines     chan string
	readErr   error
}

func NewPrompt(in io.Reader, out io.Writer, logger *slog.Logger) *Prompt {
	return &Prompt{
		in:     in,
		out:    out,
		logger: logger,
		turn:   make(chan struct{}, 1),
		lines:  make(chan string),
	}
}

// Reauthenticate prints a prompt for accountID and merges the cookies typed
// in reply into current.
func (p *Prompt) Reauthenticate(ctx context.Context, accountID string, current core.Material) (core.Material, error) {
	select {
	case p.turn <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.turn }()

	p.startOnce.Do(func() { go p.readLines() })

	p.logger.Warn("session expired, waiting for new cookies on the terminal", "account", accountID)
	fmt.Fprintf(p.out, "Enter new cookies for %s: ", accountID)

	select {
	case line, ok := <-p.lines:
		if !ok {
			return nil, fmt.Errorf("%w: %w", ErrInputClosed, p.readErr)
		}
		return merge(current, hh.ParseCookies(line))
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return nil, ctx.Err()
	}
}

// readLines feeds p.lines until the input ends. A line typed after its
// prompt was abandoned answers the next prompt.
func (p *Prompt) readLines() {
	sc := bufio.NewScanner(p.in)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		p.lines <- sc.Text()
	}
	p.readErr = sc.Err()
	if p.readErr == nil {
		p.readErr = io.EOF
	}
	close(p.lines)
}

func merge(current, update core.Material) (core.Material, error) {
	if len(update) == 0 {
		return nil, ErrEmptyInput
	}
	merged := current.Clone()
	maps.Copy(merged, update)
	return merged, nil
}
