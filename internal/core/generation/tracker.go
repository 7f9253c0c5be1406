// Package generation tracks which asynchronous request is the most recent
// one for a component, so that responses to superseded requests can be
// dropped instead of overwriting newer state.
package generation

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned for a request that a newer one replaced.
var ErrSuperseded = errors.New("request superseded by a newer one")

// Token identifies one started request.
type Token uint64

// Tracker hands out tokens and cancels the previous request on Begin.
type Tracker struct {
	mu      sync.Mutex
	current Token
	cancel  context.CancelFunc
}

// Begin starts a new generation derived from parent. The context of the
// previous generation, if any, is cancelled. The returned CancelFunc must be
// called once the request completes.
func (t *Tracker) Begin(parent context.Context) (context.Context, Token, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.current++
	token := t.current
	t.cancel = cancel
	t.mu.Unlock()

	return ctx, token, cancel
}

// IsCurrent reports whether token belongs to the latest generation.
func (t *Tracker) IsCurrent(token Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return token == t.current
}

// Check returns ErrSuperseded when token is no longer current.
func (t *Tracker) Check(token Token) error {
	if !t.IsCurrent(token) {
		return ErrSuperseded
	}
	return nil
}

// Current returns the latest token handed out.
func (t *Tracker) Current() Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Stop cancels the in-flight generation without starting a new one.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.current++
}
