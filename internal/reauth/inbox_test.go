package reauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/apply-warden/internal/core"
)

func TestInbox_DeliverReleasesWaiter(t *testing.T) {
	b := NewInbox(testLogger())

	done := make(chan core.Material)
	go func() {
		m, err := b.Reauthenticate(context.Background(), "me@example.com", core.Material{"hhuid": "u", "hhtoken": "old"})
		assert.NoError(t, err)
		done <- m
	}()

	require.Eventually(t, func() bool {
		return len(b.Pending()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"me@example.com"}, b.Pending())

	require.NoError(t, b.Deliver("me@example.com", core.Material{"hhtoken": "new"}))
	assert.Equal(t, core.Material{"hhuid": "u", "hhtoken": "new"}, <-done)

	require.Eventually(t, func() bool {
		return len(b.Pending()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestInbox_DeliverWithoutWaiter(t *testing.T) {
	b := NewInbox(testLogger())
	require.ErrorIs(t, b.Deliver("nobody@example.com", core.Material{"a": "1"}), ErrNotAwaiting)
}

func TestInbox_SecondDeliveryIsRefused(t *testing.T) {
	b := NewInbox(testLogger())
	b.mu.Lock()
	b.waiting["me@example.com"] = make(chan core.Material, 1)
	b.mu.Unlock()

	require.NoError(t, b.Deliver("me@example.com", core.Material{"a": "1"}))
	require.ErrorIs(t, b.Deliver("me@example.com", core.Material{"a": "2"}), ErrDelivered)
}

func TestInbox_OneWaiterPerAccount(t *testing.T) {
	b := NewInbox(testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 1)
	go func() {
		_, err := b.Reauthenticate(ctx, "me@example.com", nil)
		errs <- err
	}()
	require.Eventually(t, func() bool {
		return len(b.Pending()) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := b.Reauthenticate(context.Background(), "me@example.com", nil)
	require.ErrorIs(t, err, ErrAlreadyWaiting)

	cancel()
	require.ErrorIs(t, <-errs, context.Canceled)
}

func TestInbox_EmptyDeliveryFailsRefresh(t *testing.T) {
	b := NewInbox(testLogger())
	errs := make(chan error, 1)
	go func() {
		_, err := b.Reauthenticate(context.Background(), "me@example.com", core.Material{"a": "1"})
		errs <- err
	}()
	require.Eventually(t, func() bool {
		return len(b.Pending()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, b.Deliver("me@example.com", core.Material{}))
	require.ErrorIs(t, <-errs, ErrEmptyInput)
}
