package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vaultly/pkg/domain"
)

func TestPublisherEmitAndList(t *testing.T) {
	ctx := context.Background()
	pub := NewPublisher(NewMemoryStore())

	acct, err := id.ParseAccountID("acct-1")
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, pub.Emit(ctx, Event{
		Timestamp: at,
		AccountID: acct,
		Action:    ActionVerificationAttempt,
		Outcome:   "verified",
		MaskedPAN: "ABXXXXXX4F",
	}))

	events, err := pub.List(ctx, acct)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Timestamp)
	assert.Equal(t, ActionVerificationAttempt, events[0].Action)
	assert.Equal(t, "ABXXXXXX4F", events[0].MaskedPAN)
}

func TestPublisherFillsTimestamp(t *testing.T) {
	ctx := context.Background()
	pub := NewPublisher(NewMemoryStore())

	acct, err := id.ParseAccountID("acct-1")
	require.NoError(t, err)

	require.NoError(t, pub.Emit(ctx, Event{AccountID: acct, Action: ActionStatusReset}))

	events, err := pub.List(ctx, acct)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherListFiltersByAccount(t *testing.T) {
	ctx := context.Background()
	pub := NewPublisher(NewMemoryStore())

	first, err := id.ParseAccountID("acct-1")
	require.NoError(t, err)
	second, err := id.ParseAccountID("acct-2")
	require.NoError(t, err)

	require.NoError(t, pub.Emit(ctx, Event{AccountID: first, Action: ActionVerificationAttempt}))
	require.NoError(t, pub.Emit(ctx, Event{AccountID: second, Action: ActionVerificationAttempt}))
	require.NoError(t, pub.Emit(ctx, Event{AccountID: first, Action: ActionStatusReset}))

	events, err := pub.List(ctx, first)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionVerificationAttempt, events[0].Action)
	assert.Equal(t, ActionStatusReset, events[1].Action)
}

func TestWorkerForwardsToSink(t *testing.T) {
	store := NewMemoryStore()
	inbox := make(chan Event, 4)
	worker := NewWorker(NewPublisher(store), inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	acct, err := id.ParseAccountID("acct-1")
	require.NoError(t, err)
	inbox <- Event{AccountID: acct, Action: ActionVerificationAttempt}

	require.Eventually(t, func() bool {
		events, err := store.ListByAccount(context.Background(), acct)
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
