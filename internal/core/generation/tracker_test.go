package generation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerSupersedes(t *testing.T) {
	var tr Tracker

	ctx1, tok1, cancel1 := tr.Begin(context.Background())
	defer cancel1()
	assert.True(t, tr.IsCurrent(tok1))
	assert.NoError(t, tr.Check(tok1))

	ctx2, tok2, cancel2 := tr.Begin(context.Background())
	defer cancel2()

	assert.False(t, tr.IsCurrent(tok1))
	assert.ErrorIs(t, tr.Check(tok1), ErrSuperseded)
	assert.True(t, tr.IsCurrent(tok2))
	assert.Equal(t, tok2, tr.Current())

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	assert.NoError(t, ctx2.Err())
}

func TestTrackerStop(t *testing.T) {
	var tr Tracker

	ctx, tok, cancel := tr.Begin(context.Background())
	defer cancel()

	tr.Stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, tr.IsCurrent(tok))

	assert.NotPanics(t, tr.Stop)
}
